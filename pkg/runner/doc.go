/*
Package runner implements the interactive read-answer loop.

The runner reads one message at a time through a pluggable IOHandler, hands it to a
Responder (usually a *minibot.Bot) and writes the reply back. It stops on an exit word
("q", "çık", "cik", "exit"), at end of input or on Ctrl+C, always saying goodbye.

# Key Components

  - Runner: the loop itself.
  - TextHandler: "Sen: " prompt and "Bot: " replies for terminals and pipes.
  - JSONHandler: JSON-Lines in and out for scripted use.
  - SanitizeInput: size limit (MINIBOT_MAX_INPUT_SIZE), UTF-8 check, control character stripping.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, minibot.New()); err != nil {
		log.Fatal(err)
	}
*/
package runner
