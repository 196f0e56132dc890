package service

import (
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/config"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	cache     *graph.Cache
	metrics   *metrics.Registry
	publisher InvalidationPublisher
	mirror    GraphMirror
	graphCfg  config.GraphConfig
}

// NewServices wires services over shared stores. The graph cache lives here
// so every GraphService handed out sees the same entries.
func NewServices(
	stores *store.Stores,
	txRunner TxRunner,
	metrics *metrics.Registry,
	publisher InvalidationPublisher,
	mirror GraphMirror,
	graphCfg config.GraphConfig,
) *Services {
	return &Services{
		stores:    stores,
		txRunner:  txRunner,
		cache:     graph.NewCache(),
		metrics:   metrics,
		publisher: publisher,
		mirror:    mirror,
		graphCfg:  graphCfg,
	}
}

func (s *Services) Graph() GraphService {
	var source GraphSource
	if s.stores != nil {
		source = s.stores
	}
	return NewGraphService(source, s.cache, s.metrics, s.publisher, s.mirror, s.graphCfg)
}

func (s *Services) Suggestions() SuggestionService {
	return NewSuggestionService(s.stores.Suggestions(), s.txRunner, s.Graph(), s.metrics, s.graphCfg.ExcerptCap)
}
