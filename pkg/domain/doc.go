/*
Package domain contains the core types shared by the responder: intents, handlers,
error sentinels and lifecycle events.

It is kept free of I/O and persistence concerns so that the router, the built-in
intents and the adapters can depend on it without depending on each other.

# Key Entities

  - Intent: a named rule made of trigger substrings and a Handler.
  - Handler: turns normalized text into a reply, or fails with an error.
  - HandlerFailure: the error the router records when a matched handler fails.
  - LifecycleHooks: optional callbacks for logging and metrics.
*/
package domain
