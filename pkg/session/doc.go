/*
Package session maps session IDs to Bots.

Each session gets its own Bot and task list. Every call for a session runs under a
reference-counted local mutex and, when configured, a distributed lock, so replicas
sharing a Redis task store never interleave two messages of the same conversation.

Bots are cheap to rebuild, so the Manager forgets sessions that go quiet: idle ones are
swept when a new session starts and the least recently used one makes room at the cap.
With Redis the task list outlives its Bot and is picked up again on the next message.
*/
package session
