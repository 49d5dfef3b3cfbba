package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

// ErrNoProducts is returned when the catalog yields no sources for the
// requested category.
var ErrNoProducts = errors.New("no products found")

// DefaultMaxTotal caps the number of discovered products when the request
// does not specify one.
const DefaultMaxTotal = 10

// CatalogPipeline discovers competitor product sources from a local catalog
// file and assembles the notebook artifacts for a run.
type CatalogPipeline struct {
	CompetitorPath string

	logger *slog.Logger
}

// NewCatalogPipeline creates a pipeline reading the catalog at path.
func NewCatalogPipeline(path string, logger *slog.Logger) *CatalogPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogPipeline{CompetitorPath: path, logger: logger}
}

// Run executes discovery for one request. Progress milestones are reported
// through progress in the order they happen; the same lines end up in the
// run's remote log timeline.
func (p *CatalogPipeline) Run(ctx context.Context, req api.RunRequest, progress func(string)) (*api.RunResult, error) {
	log := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if progress != nil {
			progress(msg)
		}
		p.logger.Info(msg)
	}

	market := strings.TrimSpace(req.Market)
	if market == "" {
		market = "Global"
	}
	log("discovery: start category=%s market=%s", req.Category, market)

	competitors, err := LoadCompetitors(p.CompetitorPath)
	if err != nil {
		return nil, err
	}
	log("discovery: loaded %d competitors", len(competitors))

	preferred := req.PreferredBrands
	if len(preferred) == 0 {
		preferred = PreferredBrands(competitors)
	}
	if len(preferred) > 0 {
		log("discovery: preferred brands = %s", strings.Join(preferred, ", "))
	} else {
		log("discovery: preferred brands = none")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allowExternal := true
	if req.AllowExternalBrands != nil {
		allowExternal = *req.AllowExternalBrands
	}
	maxTotal := req.MaxTotal
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}

	products := selectProducts(competitors, selection{
		category:      req.Category,
		preferred:     preferred,
		allowExternal: allowExternal,
		preferPDFs:    req.PreferPDFs,
		maxTotal:      maxTotal,
		maxShopee:     req.MaxShopeeProducts,
	})
	log("discovery: discovery complete (products=%d)", len(products))
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	notebookID := "notebook:" + uuid.NewString()
	log("discovery: created notebook %s", notebookID)

	for _, product := range products {
		log("discovery: adding source %s", product.URL)
	}
	log("discovery: sources added %d", len(products))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log("discovery: generating markdown table")
	table := renderMarkdownTable(products)

	result := &api.RunResult{
		NotebookID:    notebookID,
		SourcesAdded:  len(products),
		TableNoteID:   "note:" + uuid.NewString(),
		JSONNoteID:    "note:" + uuid.NewString(),
		ChatSessionID: "session:" + uuid.NewString(),
		Products:      products,
		MarkdownTable: table,
	}
	log("discovery: notes saved")

	return result, nil
}

type selection struct {
	category      string
	preferred     []string
	allowExternal bool
	preferPDFs    bool
	maxTotal      int
	maxShopee     int
}

type candidate struct {
	product   api.Product
	preferred bool
	pdf       bool
}

// selectProducts picks catalog pages matching the category, preferred brands
// first, optionally ranking PDF catalogues above plain product pages.
func selectProducts(competitors []Competitor, sel selection) []api.Product {
	prefSet := make(map[string]bool, len(sel.preferred))
	for _, name := range sel.preferred {
		if key := NormalizeBrandKey(name); key != "" {
			prefSet[key] = true
		}
	}

	var candidates []candidate
	for _, comp := range competitors {
		isPreferred := prefSet[NormalizeBrandKey(comp.BrandKey)] || prefSet[NormalizeBrandKey(comp.DisplayName)]
		if !sel.allowExternal && !isPreferred {
			continue
		}
		for _, page := range comp.Pages {
			if !pageMatchesCategory(page, sel.category) {
				continue
			}
			brandKey := strings.TrimSpace(comp.BrandKey)
			if brandKey == "" {
				brandKey = InferBrandKey(page.Title, page.Snippet, page.URL, competitors)
			}
			candidates = append(candidates, candidate{
				product: api.Product{
					BrandKey: brandKey,
					URL:      page.URL,
					Title:    page.Title,
					Snippet:  page.Snippet,
				},
				preferred: isPreferred,
				pdf:       page.PDF,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].preferred != candidates[j].preferred {
			return candidates[i].preferred
		}
		if sel.preferPDFs && candidates[i].pdf != candidates[j].pdf {
			return candidates[i].pdf
		}
		return false
	})

	var products []api.Product
	shopee := 0
	for _, c := range candidates {
		if len(products) >= sel.maxTotal {
			break
		}
		if sel.maxShopee > 0 && strings.Contains(strings.ToLower(c.product.URL), "shopee") {
			if shopee >= sel.maxShopee {
				continue
			}
			shopee++
		}
		products = append(products, c.product)
	}
	return products
}

// pageMatchesCategory accepts a page whose category list names the requested
// category, or whose title/snippet mentions it.
func pageMatchesCategory(page CatalogPage, category string) bool {
	want := strings.ToLower(strings.TrimSpace(category))
	if want == "" {
		return false
	}
	for _, c := range page.Categories {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return true
		}
	}
	return strings.Contains(strings.ToLower(page.Title+" "+page.Snippet), want)
}

// renderMarkdownTable builds the specs table note content. Missing values
// are rendered as "-".
func renderMarkdownTable(products []api.Product) string {
	var b strings.Builder
	b.WriteString("| Brand | Product | Source |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, p := range products {
		brand := p.BrandKey
		if brand == "" {
			brand = "-"
		}
		title := p.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", brand, title, p.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
