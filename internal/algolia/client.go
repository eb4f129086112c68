// Package algolia wraps the Algolia search API client for fetching sample
// records and reading/writing index settings.
package algolia

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"go.uber.org/zap"

	"github.com/indexpilot/indexpilot/internal/advisor"
	"github.com/indexpilot/indexpilot/internal/records"
)

// Config holds Algolia configuration. Settings writes need an admin key;
// browsing works with any key that has the browse ACL.
type Config struct {
	AppID     string
	APIKey    string
	IndexName string
}

// Settings is the subset of index settings the advisor works with.
type Settings struct {
	SearchableAttributes  []string `json:"searchableAttributes"`
	CustomRanking         []string `json:"customRanking"`
	AttributesForFaceting []string `json:"attributesForFaceting"`
	Replicas              []string `json:"replicas"`
}

// replicaRankingTail follows the sort attribute in a replica's ranking
// formula, mirroring the Algolia default ranking.
var replicaRankingTail = []string{"typo", "geo", "words", "filters", "proximity", "attribute", "exact", "custom"}

// Client wraps the Algolia search API client for one index.
type Client struct {
	client    *search.APIClient
	indexName string
	log       *zap.Logger
}

// NewClient creates an Algolia client for cfg.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("algolia AppID and APIKey are required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("algolia index name is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := search.NewClient(cfg.AppID, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating algolia client: %w", err)
	}

	return &Client{
		client:    client,
		indexName: cfg.IndexName,
		log:       log,
	}, nil
}

// IndexName returns the primary index this client operates on.
func (c *Client) IndexName() string {
	return c.indexName
}

// FetchSettings reads the current settings of the primary index.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	resp, err := c.client.GetSettings(c.client.NewApiGetSettingsRequest(c.indexName))
	if err != nil {
		return Settings{}, fmt.Errorf("fetch settings for %q: %w", c.indexName, err)
	}
	return Settings{
		SearchableAttributes:  resp.SearchableAttributes,
		CustomRanking:         resp.CustomRanking,
		AttributesForFaceting: resp.AttributesForFaceting,
		Replicas:              resp.Replicas,
	}, nil
}

// BrowseSample pulls up to limit records from the live index via the browse
// API. Index-internal fields are stripped so the records look like the
// source data the model should reason about.
func (c *Client) BrowseSample(ctx context.Context, limit int) ([]records.Record, error) {
	if limit <= 0 {
		limit = records.DefaultSampleLimit
	}

	resp, err := c.client.Browse(c.client.NewApiBrowseRequest(c.indexName))
	if err != nil {
		return nil, fmt.Errorf("browse %q: %w", c.indexName, err)
	}

	recs := make([]records.Record, 0, limit)
	for _, hit := range resp.Hits {
		if len(recs) >= limit {
			break
		}
		rec := make(records.Record, len(hit.AdditionalProperties))
		for k, v := range hit.AdditionalProperties {
			if k == "objectID" || len(k) > 0 && k[0] == '_' {
				continue
			}
			rec[k] = v
		}
		if len(rec) > 0 {
			recs = append(recs, rec)
		}
	}

	c.log.Info("browsed sample records",
		zap.String("index", c.indexName),
		zap.Int("count", len(recs)),
	)
	return recs, nil
}

// ApplySuggestion writes a suggestion to the live index: primary settings
// first (including the replica declarations), then each replica's ranking.
// Settings apply asynchronously on the Algolia side.
func (c *Client) ApplySuggestion(ctx context.Context, s *advisor.Suggestion) error {
	settings := &search.IndexSettings{
		SearchableAttributes:  s.SearchableAttributes,
		CustomRanking:         s.CustomRanking,
		AttributesForFaceting: s.AttributesForFaceting,
	}

	replicaNames := advisor.ReplicaIndexNames(c.indexName, s.SortReplicas)
	if len(replicaNames) > 0 {
		settings.Replicas = replicaNames
	}

	resp, err := c.client.SetSettings(c.client.NewApiSetSettingsRequest(c.indexName, settings))
	if err != nil {
		return fmt.Errorf("set settings on %q: %w", c.indexName, err)
	}
	c.log.Info("primary settings applied",
		zap.String("index", c.indexName),
		zap.Int64("task_id", resp.TaskID),
	)

	for _, expr := range s.SortReplicas {
		name := advisor.ReplicaIndexName(c.indexName, expr)
		if name == "" {
			continue
		}
		replicaSettings := &search.IndexSettings{
			Ranking: append([]string{expr}, replicaRankingTail...),
		}
		if _, err := c.client.SetSettings(c.client.NewApiSetSettingsRequest(name, replicaSettings)); err != nil {
			return fmt.Errorf("set ranking on replica %q: %w", name, err)
		}
		c.log.Info("replica ranking applied",
			zap.String("replica", name),
			zap.String("sort", expr),
		)
	}

	return nil
}
