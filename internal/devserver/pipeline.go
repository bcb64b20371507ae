// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/util"
)

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline runs conversion and embedding jobs in the background. Jobs run
// one at a time; each processes every entry pending for its stage when it
// starts.
type Pipeline struct {
	registry *Registry
	mdDir    string
	delay    time.Duration
	auto     bool
	logger   *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	semaphore chan struct{}

	// mu orders spawn against Stop so wg.Add never races wg.Wait.
	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
}

// NewPipeline creates a pipeline writing converted markdown to mdDir.
func NewPipeline(registry *Registry, mdDir string, delay time.Duration, auto bool, logger *zap.Logger) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		registry:  registry,
		mdDir:     mdDir,
		delay:     delay,
		auto:      auto,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		semaphore: make(chan struct{}, 1),
	}
}

// Convert queues a conversion job.
func (p *Pipeline) Convert() bool {
	return p.spawn(StageConverted, p.convert)
}

// Embed queues an embedding job.
func (p *Pipeline) Embed() bool {
	return p.spawn(StageEmbedded, p.embed)
}

// Uploaded is called after a file is registered. With auto processing on
// it queues conversion followed by embedding.
func (p *Pipeline) Uploaded() {
	if !p.auto {
		return
	}
	p.spawn("auto", func(ctx context.Context) error {
		if err := p.convert(ctx); err != nil {
			return err
		}
		return p.embed(ctx)
	})
}

// Stop cancels running jobs and waits for them to exit.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Pipeline) spawn(name string, job func(context.Context) error) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		select {
		case p.semaphore <- struct{}{}:
		case <-p.ctx.Done():
			return
		}
		defer func() { <-p.semaphore }()

		start := time.Now()
		if err := job(p.ctx); err != nil {
			p.logger.Warn("processing job failed", zap.String("job", name), zap.Error(err))
			return
		}
		p.logger.Info("processing job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}()
	return true
}

func (p *Pipeline) convert(ctx context.Context) error {
	pending, err := p.registry.Pending(StageConverted)
	if err != nil {
		return err
	}
	for _, entry := range pending {
		if err := p.wait(ctx); err != nil {
			return err
		}
		path := filepath.Join(p.mdDir, entry.SanitizedName+".md")
		if err := util.AtomicWriteFile(path, []byte(markdownStub(entry)), 0644); err != nil {
			return fmt.Errorf("convert %s: %w", entry.OriginalName, err)
		}
		if err := p.registry.Mark(StageConverted, entry.HashID); err != nil {
			return err
		}
		p.logger.Debug("converted", zap.String("hash_id", entry.HashID))
	}
	return nil
}

// embed only picks up entries that are already converted.
func (p *Pipeline) embed(ctx context.Context) error {
	pending, err := p.registry.Pending(StageEmbedded)
	if err != nil {
		return err
	}
	for _, entry := range pending {
		if !entry.Converted {
			continue
		}
		if err := p.wait(ctx); err != nil {
			return err
		}
		if err := p.registry.Mark(StageEmbedded, entry.HashID); err != nil {
			return err
		}
		p.logger.Debug("embedded", zap.String("hash_id", entry.HashID))
	}
	return nil
}

func (p *Pipeline) wait(ctx context.Context) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func markdownStub(entry model.FileEntry) string {
	return fmt.Sprintf("# %s\n\nConverted from %s.pdf\n", entry.SanitizedName, entry.OriginalName)
}
