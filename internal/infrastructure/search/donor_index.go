package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-blood-donation/internal/application"
)

const requestTimeout = 3 * time.Second

// DonorIndex stores donor profiles in Elasticsearch, one document per user.
type DonorIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewDonorIndex(es *elasticsearch.Client, index string) *DonorIndex {
	return &DonorIndex{ES: es, Index: index}
}

func (d *DonorIndex) IndexDonor(ctx context.Context, doc application.DonorDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      d.Index,
		DocumentID: strconv.FormatInt(doc.UserID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, d.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// maxWindow is the default index.max_result_window.
const maxWindow = 10000

// searchQuery builds a multi_match over name and address limited to the
// given user ids, sized so every candidate can be returned.
func searchQuery(q string, within []int64) map[string]any {
	size := len(within)
	if size > maxWindow {
		size = maxWindow
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "address"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"terms": map[string]any{"user_id": within},
				},
			},
		},
		"_source": []string{"user_id"},
		"size":    size,
	}
}

func (d *DonorIndex) SearchDonors(ctx context.Context, q string, within []int64) ([]int64, error) {
	if len(within) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(searchQuery(q, within))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := d.ES.Search(
		d.ES.Search.WithContext(c),
		d.ES.Search.WithIndex(d.Index),
		d.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					UserID int64 `json:"user_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.UserID)
	}
	return out, nil
}

var _ application.DonorIndex = (*DonorIndex)(nil)
