// load
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pacs008/actor"
	"github.com/pacs008/actor/treeset"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type loadReport struct {
	Operations int
	Live       int
	Elapsed    time.Duration
	Stats      treeset.Stats
}

// runLoad drives settings.Workers concurrent clients against set.
// Worker w owns the keys congruent to w, so each worker can keep
// an exact model of its keys; at the end every key is checked
// against the models.
func runLoad(ctx context.Context, as *actor.ActorSystem, set *actor.ActorRef, settings LoadSettings, timeout time.Duration, seed int64) (*loadReport, error) {
	start := time.Now()
	models := make([]map[int]bool, settings.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < settings.Workers; w++ {
		w := w
		models[w] = make(map[int]bool)
		g.Go(func() error {
			client, err := treeset.NewClient(as, set, timeout)
			if err != nil {
				return err
			}
			defer client.Stop()

			rng := rand.New(rand.NewSource(seed + int64(w)))
			model := models[w]
			for i := 0; i < settings.Operations; i++ {
				key := rng.Intn(settings.KeySpace)
				key -= key % settings.Workers
				key += w
				switch rng.Intn(4) {
				case 0, 1:
					if err := client.Insert(gctx, key); err != nil {
						return err
					}
					model[key] = true
				case 2:
					if err := client.Remove(gctx, key); err != nil {
						return err
					}
					model[key] = false
				default:
					ok, err := client.Contains(gctx, key)
					if err != nil {
						return err
					}
					if ok != model[key] {
						return fmt.Errorf("worker %d: contains %d = %v, want %v", w, key, ok, model[key])
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	client, err := treeset.NewClient(as, set, timeout)
	if err != nil {
		return nil, err
	}
	defer client.Stop()

	live := 0
	for w, model := range models {
		for key, want := range model {
			ok, err := client.Contains(ctx, key)
			if err != nil {
				return nil, err
			}
			if ok != want {
				return nil, fmt.Errorf("final check: contains %d = %v, want %v (worker %d)", key, ok, want, w)
			}
			if want {
				live++
			}
		}
	}

	stats, err := client.Stats()
	if err != nil {
		return nil, err
	}
	report := &loadReport{
		Operations: settings.Workers * settings.Operations,
		Live:       live,
		Elapsed:    time.Since(start),
		Stats:      stats,
	}
	log.WithFields(log.Fields{
		"operations": report.Operations,
		"live":       report.Live,
		"gcCycles":   stats.GCCycles,
		"elapsed":    report.Elapsed,
	}).Info("Load finished")
	return report, nil
}
