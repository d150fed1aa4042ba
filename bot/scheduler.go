package bot

import (
	"log"
	"moderation-bot/scanner"
)

// StartScheduler launches the three independent background timers: the
// action queue drain, the log ingestion loop and the sanction sweeper.
// They run on their own schedules and must tolerate each other being slow,
// so each gets its own goroutine tied to the shared done channel.
func (b *Bot) StartScheduler() {
	b.wg.Add(3)

	go func() {
		defer b.wg.Done()
		b.Queue.Start(b.done)
	}()

	go func() {
		defer b.wg.Done()
		b.LogManager.Start(b.done)
	}()

	go func() {
		defer b.wg.Done()
		scanner.StartSanctionSweeper(b.DB, b.RoleManager, b.done)
	}()

	log.Println("Scheduler started: action queue, log ingestion, sanction sweeper")
}
