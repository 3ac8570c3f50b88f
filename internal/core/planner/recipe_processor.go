package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dinner-planner/internal/core/parser"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// RecipeJob asks for one dish's recipe text to be parsed into ingredients.
type RecipeJob struct {
	DishID     int64
	RecipeText string
}

// RecipeResult is the outcome of one processed job.
type RecipeResult struct {
	DishID      int64                     `json:"dish_id"`
	Ingredients []parser.ParsedIngredient `json:"ingredients"`
	Created     int                       `json:"created"`
	Matched     int                       `json:"matched"`
	Err         error                     `json:"-"`
}

// QueueStatus reports the processor's queue for the health endpoint.
type QueueStatus struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

type queuedJob struct {
	ctx    context.Context
	job    RecipeJob
	result chan RecipeResult
}

// RecipeProcessor parses recipe text through the LLM on a bounded worker
// pool. LLM calls are slow, so requests queue rather than fan out unbounded.
type RecipeProcessor struct {
	config      *config.Config
	parser      *parser.Service
	ingredients store.IngredientRepository
	dishes      store.DishRepository

	queue     chan *queuedJob
	done      chan struct{}
	wg        sync.WaitGroup
	processed int64
	closeOnce sync.Once
}

// NewRecipeProcessor builds the processor and starts its workers.
func NewRecipeProcessor(cfg *config.Config, parserSvc *parser.Service, ingredients store.IngredientRepository, dishes store.DishRepository) *RecipeProcessor {
	p := &RecipeProcessor{
		config:      cfg,
		parser:      parserSvc,
		ingredients: ingredients,
		dishes:      dishes,
		queue:       make(chan *queuedJob, cfg.Queue.MaxSize),
		done:        make(chan struct{}),
	}

	workers := cfg.Queue.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	common.LogInfo("recipe processor started",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", cfg.Queue.MaxSize),
	)
	return p
}

// Enqueue queues a job and returns a channel carrying its single result.
func (p *RecipeProcessor) Enqueue(ctx context.Context, job RecipeJob) (<-chan RecipeResult, error) {
	if len(p.queue) >= p.config.Queue.MaxSize {
		return nil, fmt.Errorf("recipe queue is full")
	}

	q := &queuedJob{
		ctx:    ctx,
		job:    job,
		result: make(chan RecipeResult, 1),
	}
	select {
	case p.queue <- q:
		common.LogDebug("recipe job enqueued",
			zap.Int64("dish_id", job.DishID),
			zap.Int("queue_length", len(p.queue)),
		)
		return q.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, fmt.Errorf("recipe processor is closed")
	}
}

// Process runs one job synchronously, waiting for a worker to pick it up.
func (p *RecipeProcessor) Process(ctx context.Context, job RecipeJob) (*RecipeResult, error) {
	resultCh, err := p.Enqueue(ctx, job)
	if err != nil {
		return nil, err
	}
	select {
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
		return &result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *RecipeProcessor) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case q, ok := <-p.queue:
			if !ok {
				return
			}
			q.result <- p.run(q.ctx, q.job)
			atomic.AddInt64(&p.processed, 1)
		case <-p.done:
			return
		}
	}
}

// run parses the recipe and attaches the result to the dish: known
// ingredients get a new instance, unknown ones are created first.
func (p *RecipeProcessor) run(ctx context.Context, job RecipeJob) RecipeResult {
	result := RecipeResult{DishID: job.DishID}

	if _, err := p.dishes.Get(ctx, job.DishID); err != nil {
		result.Err = err
		return result
	}

	existing, err := p.ingredients.List(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	known := make([]parser.ExistingIngredient, 0, len(existing))
	for _, ing := range existing {
		known = append(known, parser.ExistingIngredient{
			ID:   ing.ID,
			Name: ing.Name,
			Unit: ing.Unit,
		})
	}

	parsed, err := p.parser.Parse(ctx, job.RecipeText, known)
	if err != nil {
		result.Err = err
		return result
	}
	result.Ingredients = parsed

	for _, ing := range parsed {
		ingredientID, created, err := p.resolveIngredient(ctx, ing)
		if err != nil {
			result.Err = err
			return result
		}
		if created {
			result.Created++
		} else {
			result.Matched++
		}

		quantity := 1.0
		if ing.ConvertedQuantity != nil {
			quantity = *ing.ConvertedQuantity
		} else if ing.Quantity != nil {
			quantity = *ing.Quantity
		}
		instance := store.InstanceInput{
			IngredientID: ingredientID,
			DishID:       job.DishID,
			Quantity:     quantity,
		}
		if ing.Notes != "" {
			notes := ing.Notes
			instance.Notes = &notes
		}
		if _, err := p.ingredients.AddInstance(ctx, instance); err != nil {
			result.Err = err
			return result
		}
	}

	common.LogInfo("recipe processed",
		zap.Int64("dish_id", job.DishID),
		zap.Int("ingredients", len(parsed)),
		zap.Int("created", result.Created),
		zap.Int("matched", result.Matched),
	)
	return result
}

// resolveIngredient returns the ID of the matched or freshly created
// ingredient and whether it was created.
func (p *RecipeProcessor) resolveIngredient(ctx context.Context, ing parser.ParsedIngredient) (int64, bool, error) {
	if ing.MatchedIngredientID != nil {
		return *ing.MatchedIngredientID, false, nil
	}

	if found, err := p.ingredients.GetByName(ctx, ing.Name); err == nil {
		return found.ID, false, nil
	} else if !errors.Is(err, common.ErrIngredientNotFound) {
		return 0, false, err
	}

	created, err := p.ingredients.Create(ctx, store.IngredientInput{
		Name: ing.Name,
		Unit: ing.Unit,
	})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

// Status reports queue counters.
func (p *RecipeProcessor) Status() QueueStatus {
	return QueueStatus{
		QueueLength:    len(p.queue),
		ProcessedCount: int(atomic.LoadInt64(&p.processed)),
		MaxQueueSize:   p.config.Queue.MaxSize,
		Workers:        p.config.Queue.Workers,
	}
}

// Close stops the workers. Queued jobs that have not started are dropped.
func (p *RecipeProcessor) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
