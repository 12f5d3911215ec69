package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ncobase/searchsync/ecode"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Supported search engines
const (
	EngineElasticsearch = "elasticsearch"
	EngineOpenSearch    = "opensearch"
	EngineMeilisearch   = "meilisearch"
	EngineBleve         = "bleve"
)

// Supported id generators
const (
	IDGeneratorUUID   = "uuid"
	IDGeneratorNanoID = "nanoid"
)

// DefaultBase is the namespace used for authoritative lookups when no base is configured.
const DefaultBase = "sys"

// Search holds the search plugin configuration.
type Search struct {
	Engine          string         `json:"engine" yaml:"engine"`
	Connection      *Connection    `json:"connection" yaml:"connection"`
	RefreshOnSave   bool           `json:"refresh_on_save" yaml:"refresh_on_save"`
	AutoCreateIndex bool           `json:"auto_create_index" yaml:"auto_create_index"`
	Entities        Entities       `json:"entities" yaml:"entities"`
	Filters         []FilterRule   `json:"filters" yaml:"filters"`
	Base            string         `json:"base" yaml:"base"`
	IDGenerator     string         `json:"id_generator" yaml:"id_generator"`
	Concurrency     int            `json:"concurrency" yaml:"concurrency"`
	Elasticsearch   *Elasticsearch `json:"elasticsearch" yaml:"elasticsearch"`
	OpenSearch      *OpenSearch    `json:"opensearch" yaml:"opensearch"`
	Meilisearch     *Meilisearch   `json:"meilisearch" yaml:"meilisearch"`
	Bleve           *Bleve         `json:"bleve" yaml:"bleve"`
	Breaker         *Breaker       `json:"breaker" yaml:"breaker"`

	// filtersErr is set when the filters block could not be read.
	filtersErr error
}

// Entities maps an entity type to the fields allowed into its index document.
type Entities map[string][]string

// Fields returns the allow-list for a type. Type names are case-insensitive
// because viper lower-cases map keys.
func (e Entities) Fields(entityType string) ([]string, bool) {
	if e == nil {
		return nil, false
	}
	if fields, ok := e[entityType]; ok {
		return fields, true
	}
	for name, fields := range e {
		if strings.EqualFold(name, entityType) {
			return fields, true
		}
	}
	return nil, false
}

// FilterRule is one skip-on-save predicate. Match is compared for equality
// first and otherwise compiled as a regular expression.
type FilterRule struct {
	Type  string `json:"type" yaml:"type" mapstructure:"type"`
	Field string `json:"field" yaml:"field" mapstructure:"field"`
	Match string `json:"match" yaml:"match" mapstructure:"match"`
}

// Validate reports a filters block that could not be read and rules
// missing their type or field.
func (s *Search) Validate() error {
	if s == nil {
		return nil
	}
	if s.filtersErr != nil {
		return s.filtersErr
	}
	for i, rule := range s.Filters {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("search.filters[%d]: %w", i, err)
		}
	}
	return nil
}

func (r FilterRule) validate() error {
	switch {
	case strings.TrimSpace(r.Type) == "":
		return errors.New(ecode.FieldIsRequired("type"))
	case strings.TrimSpace(r.Field) == "":
		return errors.New(ecode.FieldIsRequired("field"))
	}
	return nil
}

// BaseOrDefault returns the configured base namespace or DefaultBase.
func (s *Search) BaseOrDefault() string {
	if s == nil || s.Base == "" {
		return DefaultBase
	}
	return s.Base
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Bleve embedded index config. An empty path keeps indexes in memory.
type Bleve struct {
	Path string `json:"path" yaml:"path"`
}

// Breaker circuit breaker settings for the search backend
type Breaker struct {
	Enabled          bool          `json:"enabled" yaml:"enabled"`
	MaxRequests      uint32        `json:"max_requests" yaml:"max_requests"`
	Interval         time.Duration `json:"interval" yaml:"interval"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	FailureThreshold uint32        `json:"failure_threshold" yaml:"failure_threshold"`
}

// getSearchConfig reads search configurations
func getSearchConfig(v *viper.Viper) *Search {
	filters, filtersErr := getFiltersConfig(v)
	return &Search{
		Engine:          strings.ToLower(getStringOrDefault(v, "search.engine", EngineElasticsearch)),
		Connection:      getConnectionConfig(v),
		RefreshOnSave:   v.GetBool("search.refresh_on_save"),
		AutoCreateIndex: v.GetBool("search.auto_create_index"),
		Entities:        getEntitiesConfig(v),
		Filters:         filters,
		Base:            v.GetString("search.base"),
		IDGenerator:     strings.ToLower(getStringOrDefault(v, "search.id_generator", IDGeneratorUUID)),
		Concurrency:     getIntOrDefault(v, "search.concurrency", 0),
		Elasticsearch:   getElasticsearchConfigs(v),
		OpenSearch:      getOpenSearchConfigs(v),
		Meilisearch:     getMeilisearchConfigs(v),
		Bleve:           &Bleve{Path: v.GetString("search.bleve.path")},
		Breaker:         getBreakerConfig(v),
		filtersErr:      filtersErr,
	}
}

// getEntitiesConfig reads the per-type field allow-lists
func getEntitiesConfig(v *viper.Viper) Entities {
	if !v.IsSet("search.entities") {
		return Entities{}
	}
	return Entities(v.GetStringMapStringSlice("search.entities"))
}

// getFiltersConfig reads the skip-on-save predicates. Two shapes are accepted:
//
//	filters:                      filters:
//	  - type: user                  user:
//	    field: status                 status: "^deleted$"
//	    match: "^deleted$"
func getFiltersConfig(v *viper.Viper) ([]FilterRule, error) {
	if !v.IsSet("search.filters") {
		return nil, nil
	}
	rules, err := parseFilters(v.Get("search.filters"))
	if err != nil {
		return nil, fmt.Errorf("search.filters: %w", err)
	}
	for i, rule := range rules {
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("search.filters[%d]: %w", i, err)
		}
	}
	return rules, nil
}

func parseFilters(raw any) ([]FilterRule, error) {
	if raw == nil {
		return nil, nil
	}
	if byType, err := cast.ToStringMapE(raw); err == nil {
		return parseFilterMap(byType)
	}
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, errors.New(ecode.FieldIsInvalid("filters") + ": want a list of rules or a map of type to field conditions")
	}
	rules := make([]FilterRule, 0, len(items))
	for i, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %s", i, ecode.FieldIsInvalid("rule"))
		}
		rule := FilterRule{}
		for key, value := range m {
			str, err := cast.ToStringE(value)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %s", i, ecode.FieldIsInvalid(key))
			}
			switch strings.ToLower(key) {
			case "type":
				rule.Type = str
			case "field":
				rule.Field = str
			case "match":
				rule.Match = str
			default:
				return nil, fmt.Errorf("rule %d: unknown key %q", i, key)
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// parseFilterMap reads the per-type form. Rules come out sorted by type
// and field.
func parseFilterMap(byType map[string]any) ([]FilterRule, error) {
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	var rules []FilterRule
	for _, t := range types {
		conds, err := cast.ToStringMapE(byType[t])
		if err != nil {
			return nil, fmt.Errorf("%s: %s", t, ecode.FieldIsInvalid("conditions"))
		}
		fields := make([]string, 0, len(conds))
		for f := range conds {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			match, err := cast.ToStringE(conds[f])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %s", t, f, ecode.FieldIsInvalid("condition"))
			}
			rules = append(rules, FilterRule{Type: t, Field: f, Match: match})
		}
	}
	return rules, nil
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	return &Elasticsearch{
		Addresses: v.GetStringSlice("search.elasticsearch.addresses"),
		Username:  v.GetString("search.elasticsearch.username"),
		Password:  v.GetString("search.elasticsearch.password"),
	}
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	return &OpenSearch{
		Addresses:       v.GetStringSlice("search.opensearch.addresses"),
		Username:        v.GetString("search.opensearch.username"),
		Password:        v.GetString("search.opensearch.password"),
		InsecureSkipTLS: v.GetBool("search.opensearch.insecure_skip_tls"),
	}
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	return &Meilisearch{
		Host:   v.GetString("search.meilisearch.host"),
		APIKey: v.GetString("search.meilisearch.api_key"),
	}
}

// getBreakerConfig reads circuit breaker settings
func getBreakerConfig(v *viper.Viper) *Breaker {
	return &Breaker{
		Enabled:          v.GetBool("search.breaker.enabled"),
		MaxRequests:      getUint32OrDefault(v, "search.breaker.max_requests", 1),
		Interval:         getDurationOrDefault(v, "search.breaker.interval", time.Minute),
		Timeout:          getDurationOrDefault(v, "search.breaker.timeout", 30*time.Second),
		FailureThreshold: getUint32OrDefault(v, "search.breaker.failure_threshold", 5),
	}
}
