package keeper

import (
	"context"
	"log"
	"time"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/go-co-op/gocron/v2"
)

// Keeper drives games whose deadlines have passed. It acts through the same
// permissionless operations any player could call.
type Keeper struct {
	engine *game.Engine
	id     string
	sched  gocron.Scheduler
}

func New(engine *game.Engine, id string) *Keeper {
	return &Keeper{engine: engine, id: id}
}

// Start runs Tick every interval until Stop is called.
func (k *Keeper) Start(interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if n := k.Tick(ctx); n > 0 {
				log.Printf("keeper tick actions=%d", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	sched.Start()
	k.sched = sched
	log.Printf("keeper started id=%s interval=%s", k.id, interval)
	return nil
}

func (k *Keeper) Stop() error {
	if k.sched == nil {
		return nil
	}
	return k.sched.Shutdown()
}

// Tick performs every overdue transition once and returns how many
// operations were committed.
func (k *Keeper) Tick(ctx context.Context) int {
	now := k.engine.Now()
	actions := 0
	for _, g := range k.engine.Store().ListGames(game.StatusInProgress) {
		if ctx.Err() != nil {
			return actions
		}
		var (
			op  string
			err error
		)
		switch {
		case g.Phase < 3 && now >= g.AdvanceDeadline:
			op = "advance_phase"
			_, err = k.engine.AdvancePhase(ctx, g.ID, k.id)
		case g.Phase == 3 && !g.Phase3Started && now >= g.ActiveReadyDeadline():
			op = "start_phase3_game"
			_, err = k.engine.StartPhase3Game(ctx, g.ID, k.id)
		default:
			continue
		}
		if err != nil {
			log.Printf("keeper action failed op=%s game_id=%d error=%v", op, g.ID, err)
			continue
		}
		log.Printf("keeper action op=%s game_id=%d", op, g.ID)
		actions++
	}
	return actions
}
