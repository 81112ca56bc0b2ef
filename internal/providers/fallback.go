package providers

import (
	"context"
	"fmt"
	"log"
)

// FallbackLLM tries the manager's LLM providers in preferred order,
// moving on when a provider fails with a retryable class of error
// (quota, rate, transient). Permanent errors stop the chain.
type FallbackLLM struct {
	m *Manager
}

func NewFallbackLLM(m *Manager) *FallbackLLM {
	return &FallbackLLM{m: m}
}

func (f *FallbackLLM) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	var lastErr error
	var lastInfo ProviderInfo
	for _, i := range f.m.PreferredLLMOrder() {
		p, ref := f.m.LLMProviderByIndex(i)
		resp, info, err := p.Generate(ctx, req)
		if err == nil {
			return resp, info, nil
		}
		lastErr, lastInfo = err, info
		class := ClassifyError(err)
		if !retryable(class) {
			return GenerateResponse{}, info, err
		}
		log.Printf("llm provider failed, trying next provider=%s class=%s err=%v", ref.Name, class, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no llm providers configured")
	}
	return GenerateResponse{}, lastInfo, lastErr
}

// FallbackEmbedder is the embedding counterpart of FallbackLLM.
type FallbackEmbedder struct {
	m *Manager
}

func NewFallbackEmbedder(m *Manager) *FallbackEmbedder {
	return &FallbackEmbedder{m: m}
}

func (f *FallbackEmbedder) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	var lastErr error
	var lastInfo ProviderInfo
	for _, i := range f.m.PreferredEmbedOrder() {
		p, ref := f.m.EmbedProviderByIndex(i)
		vecs, info, err := p.Embed(ctx, req)
		if err == nil {
			return vecs, info, nil
		}
		lastErr, lastInfo = err, info
		class := ClassifyError(err)
		if !retryable(class) {
			return nil, info, err
		}
		log.Printf("embed provider failed, trying next provider=%s class=%s err=%v", ref.Name, class, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no embedding providers configured")
	}
	return nil, lastInfo, lastErr
}

func retryable(class ErrorType) bool {
	switch class {
	case ErrorQuota, ErrorRate, ErrorTransient:
		return true
	default:
		return false
	}
}

var (
	_ LLMProvider       = (*FallbackLLM)(nil)
	_ EmbeddingProvider = (*FallbackEmbedder)(nil)
)
