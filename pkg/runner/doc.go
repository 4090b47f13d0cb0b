/*
Package runner implements continuous runs of a machine.

A Runner ticks a ports.Machine until it halts, a tick budget is spent or the
context is cancelled (pause or shutdown), pacing ticks with an optional delay.
Each finished run is summarised as a domain.RunRecord, reported through a
pluggable Reporter and optionally persisted in a ports.RunStore.

# Key Components

  - Runner: the tick loop.
  - Reporter: decouples how progress is presented (text, JSON lines).
  - TextReporter / JSONReporter: the implementations used by `turing exec`.

# Usage

	r := runner.NewRunner(
		runner.WithTickDelay(50*time.Millisecond),
		runner.WithMaxTicks(10_000),
		runner.WithStore(store),
		runner.WithReporter(runner.NewTextReporter(os.Stdout)),
	)

	rec, err := r.Run(ctx, engine)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.Reason, rec.Ticks)
*/
package runner
