// Package esx maintains the optional Elasticsearch index of project records.
package esx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/samber/lo"

	"projectboard/internal/config"
	"projectboard/internal/store"
)

type Client = es8.Client

// Index is the project document index name.
const Index = "projects"

func Open(cfg *config.Config) (*Client, func(), error) {
	if strings.TrimSpace(cfg.ES.Addrs) == "" {
		return nil, func() {}, nil
	}
	raw := strings.Split(cfg.ES.Addrs, ",")
	addrs := lo.FilterMap(raw, func(s string, _ int) (string, bool) {
		t := strings.TrimSpace(s)
		return t, t != ""
	})
	es, err := es8.NewClient(es8.Config{Addresses: addrs, Username: cfg.ES.Username, Password: cfg.ES.Password})
	if err != nil {
		return nil, func() {}, err
	}
	return es, func() {}, nil
}

// ProjectDoc is the searchable subset of a project record.
type ProjectDoc struct {
	ID          int64  `json:"id"`
	ProjectName string `json:"project_name"`
	Code        string `json:"code"`
	Overview    string `json:"overview"`
	Scope       string `json:"project_scope"`
	Risk        string `json:"risk"`
}

// DocFor maps a record to its index document.
func DocFor(r *store.ProjectRecord) ProjectDoc {
	return ProjectDoc{
		ID:          r.ID,
		ProjectName: r.ProjectName,
		Code:        r.Code,
		Overview:    r.Overview,
		Scope:       r.ProjectScope,
		Risk:        r.Risk,
	}
}

// IndexProject upserts the document for one record, keyed by record id so a
// renamed project replaces its own document.
func IndexProject(ctx context.Context, es *Client, doc ProjectDoc) error {
	if es == nil {
		return nil
	}
	b, _ := json.Marshal(doc)
	res, err := es.Index(Index, bytes.NewReader(b), es.Index.WithDocumentID(docID(doc.ID)))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return fmtError(res)
	}
	return nil
}

// DeleteProject removes a document by record id. Missing documents are fine.
func DeleteProject(ctx context.Context, es *Client, id int64) error {
	if es == nil {
		return nil
	}
	res, err := es.Delete(Index, docID(id))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest && res.StatusCode != http.StatusNotFound {
		return fmtError(res)
	}
	return nil
}

// SearchProjects runs a multi-field match over the project documents.
func SearchProjects(ctx context.Context, es *Client, query string, from, size int) (map[string]any, error) {
	if es == nil {
		return map[string]any{"hits": []any{}}, nil
	}
	q := map[string]any{"query": map[string]any{"multi_match": map[string]any{
		"query":  query,
		"fields": []string{"project_name^2", "code", "overview", "project_scope", "risk"},
	}}}
	b, _ := json.Marshal(q)
	res, err := es.Search(es.Search.WithIndex(Index), es.Search.WithBody(bytes.NewReader(b)), es.Search.WithFrom(from), es.Search.WithSize(size))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmtError(res)
	}
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return out, nil
}

// helpers
func docID(id int64) string              { return strconv.FormatInt(id, 10) }
func fmtError(res *esapi.Response) error { return fmt.Errorf("es error: %s", res.String()) }
