// Package adgen turns a free-text ad request into ad copy and an image by
// chaining model calls: structured extraction, analysis with fallback,
// copywriting and image generation.
package adgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/ai"
	"github.com/kayz/adcraft/internal/logger"
	"github.com/kayz/adcraft/internal/promptbuild"
)

// Orchestrator runs the ad pipeline. It holds no per-request state and is
// safe for concurrent use when its Gateway is.
type Orchestrator struct {
	gateway          ai.Gateway
	log              logger.Logger
	recheckExtracted bool
}

type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithExtractionRecheck applies the weak-content check to data returned by
// structured extraction as well. By default extraction output is trusted.
func WithExtractionRecheck(enabled bool) Option {
	return func(o *Orchestrator) {
		o.recheckExtracted = enabled
	}
}

func New(gateway ai.Gateway, opts ...Option) (*Orchestrator, error) {
	if gateway == nil {
		return nil, errors.New("adgen: gateway is required")
	}
	o := &Orchestrator{
		gateway: gateway,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// source records where StructuredData came from; only fallback output is
// exempt from the weak-content check.
type source int

const (
	fromExtraction source = iota
	fromAnalysis
	fromFallback
)

func (s source) String() string {
	switch s {
	case fromExtraction:
		return "extraction"
	case fromAnalysis:
		return "analysis"
	default:
		return "fallback"
	}
}

// Generate runs the full pipeline for rawPrompt. Any returned error is a
// *GenerationError.
func (o *Orchestrator) Generate(ctx context.Context, rawPrompt string) (ad.Generated, error) {
	o.log.Info("[AdGen] Starting ad generation")

	data, src, err := o.structuredData(ctx, rawPrompt)
	if err != nil {
		return ad.Generated{}, err
	}

	if src == fromAnalysis || (src == fromExtraction && o.recheckExtracted) {
		if ad.IsWeak(data) {
			o.log.Warn("[AdGen] Structured data from %s is weak (%s), running fallback", src, strings.Join(ad.WeakFields(data), ", "))
			data, err = o.fallback(ctx, rawPrompt)
			if err != nil {
				return ad.Generated{}, err
			}
			src = fromFallback
		}
	}
	o.log.Debug("[AdGen] Using structured data from %s: %+v", src, data)

	textPrompt := promptbuild.BuildTextPromptFromStructured(data)
	o.log.Debug("[AdGen] Text prompt: %s", textPrompt)
	text, err := o.gateway.ChatComplete(ctx, textPrompt)
	if err != nil {
		return ad.Generated{}, newGenerationError(StageCopy, "Failed to generate ad text.", err)
	}

	imagePrompt := promptbuild.BuildImagePromptFromStructured(data.ImageSubject())
	o.log.Debug("[AdGen] Image prompt: %s", imagePrompt)
	imageURL, err := o.gateway.GenerateImage(ctx, imagePrompt)
	if err != nil {
		return ad.Generated{}, newGenerationError(StageImage, "Failed to generate ad image.", err)
	}

	o.log.Info("[AdGen] Ad generation completed")
	return ad.Generated{Text: text, ImageURL: imageURL}, nil
}

// structuredData tries extraction, then analysis, then fallback.
func (o *Orchestrator) structuredData(ctx context.Context, rawPrompt string) (ad.StructuredData, source, error) {
	data, err := o.gateway.ExtractStructured(ctx, rawPrompt)
	if err == nil {
		o.log.Debug("[AdGen] Structured extraction succeeded")
		return data, fromExtraction, nil
	}
	o.log.Warn("[AdGen] Structured extraction failed, using analysis prompt: %v", err)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ad.StructuredData{}, fromExtraction, newGenerationError(StageAnalysis, "Request was cancelled.", fmt.Errorf("%w: %w", ctxErr, err))
	}

	analysisPrompt := promptbuild.BuildPromptAnalysis(rawPrompt)
	o.log.Debug("[AdGen] Analysis prompt: %s", analysisPrompt)
	raw, err := o.gateway.ChatComplete(ctx, analysisPrompt)
	if err != nil {
		return ad.StructuredData{}, fromAnalysis, newGenerationError(StageAnalysis, "Failed to analyze the ad request.", err)
	}

	data, err = ad.Parse(raw)
	if err == nil {
		return data, fromAnalysis, nil
	}
	o.log.Warn("[AdGen] Analysis response is not structured data, running fallback: %v", err)

	data, err = o.fallback(ctx, rawPrompt)
	if err != nil {
		return ad.StructuredData{}, fromFallback, err
	}
	return data, fromFallback, nil
}

func (o *Orchestrator) fallback(ctx context.Context, rawPrompt string) (ad.StructuredData, error) {
	fallbackPrompt := promptbuild.BuildFallbackPrompt(rawPrompt)
	o.log.Debug("[AdGen] Fallback prompt: %s", fallbackPrompt)
	raw, err := o.gateway.ChatComplete(ctx, fallbackPrompt)
	if err != nil {
		return ad.StructuredData{}, newGenerationError(StageFallback, "Failed to estimate ad details.", err)
	}

	data, err := ad.Parse(raw)
	if err != nil {
		o.log.Error("[AdGen] Fallback parsing failed: %v", err)
		return ad.StructuredData{}, newGenerationError(StageFallback, "Both primary and fallback prompt parsing failed.", fmt.Errorf("%w: %w", ErrNoStructuredData, err))
	}
	o.log.Info("[AdGen] Fallback successful")
	return data, nil
}
