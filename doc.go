/*
Package minibot is a small keyword-triggered conversational responder for Turkish input.

It answers one message at a time through a fixed pipeline: text made only of arithmetic
characters is evaluated directly, everything else is normalized and matched against an ordered
intent table (first substring match wins), then a mood hint, a tiny FAQ and finally a fallback
message. No path returns an error to the caller: evaluator errors and failing handlers are turned
into replies.

# Architecture

The core is three independent pieces:

  - pkg/calc: a sandboxed arithmetic evaluator. Input is parsed with a wider grammar and then
    restricted to a closed set of node kinds, so names, calls and other constructs are rejected
    before anything is evaluated.
  - pkg/router: the ordered intent table with failure isolation.
  - pkg/ports.TaskStore: the task list shared by the todo intents, backed by memory or Redis.

The Bot wires them together. Transports (REPL, HTTP, MCP) live in pkg/runner and pkg/adapters.

# Usage

	bot := minibot.New()
	ctx := context.Background()

	fmt.Println(bot.Respond(ctx, "hesapla 2+2*3")) // Sonuç: 8
	fmt.Println(bot.Respond(ctx, "todo ekle süt"))  // Eklendi : süt
	fmt.Println(bot.Respond(ctx, "todo liste"))     // Yapılacaklar:\n- 1. süt
*/
package minibot
