package cache

import (
	"context"
	"testing"

	"github.com/jonwraymond/researchcache/cachekey"
)

func BenchmarkStorePut(b *testing.B) {
	store, _ := newTestStore(b)
	ctx := context.Background()
	req := cachekey.Request{Query: "benchmark query", ResearchType: "learning"}
	payload := []byte(`{"summary":"bench"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Put(ctx, cachekey.MethodStandard, req, payload, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStoreGetByRequest(b *testing.B) {
	store, _ := newTestStore(b)
	ctx := context.Background()
	req := cachekey.Request{Query: "benchmark query", ResearchType: "learning"}
	if _, err := store.Put(ctx, cachekey.MethodStandard, req, []byte("x"), 0); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := store.GetByRequest(ctx, cachekey.MethodStandard, req); !ok {
			b.Fatal("miss")
		}
	}
}

func BenchmarkStoreCrossMethodLookup(b *testing.B) {
	store, _ := newTestStore(b)
	ctx := context.Background()
	req := cachekey.Request{
		Query:        "benchmark query",
		ResearchType: "learning",
		Context:      &cachekey.ContextSignal{AudienceLevel: "advanced", Confidence: 0.9},
	}
	if _, err := store.Put(ctx, cachekey.MethodContextAware, req, []byte("x"), 0); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := store.GetByRequest(ctx, cachekey.MethodStandard, req); !ok {
			b.Fatal("miss")
		}
	}
}
