/*
Package ports defines the driven ports (interfaces) of the responder.

These interfaces decouple the intents and the session manager from concrete backends,
so a task list can live in process memory or in Redis without the handlers noticing.

# Key Interfaces

  - TaskStore: the ordered, append-only (plus clear-all) task list of one conversation.
  - DistributedLocker: serialises access to a session across replicas.
*/
package ports
