// Package importer loads catalog rows from CSV into the gadget store.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"techgo/models"
	"techgo/services"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogRow is one CSV line. Specifications are "name=value" pairs joined
// with ';', for example "ram=8GB;storage=256GB".
type CatalogRow struct {
	Name           string `csv:"name"`
	Brand          string `csv:"brand"`
	Category       string `csv:"category"`
	Price          string `csv:"price"`
	Description    string `csv:"description"`
	ImageURL       string `csv:"imageUrl"`
	Specifications string `csv:"specifications"`
}

type Result struct {
	Inserted int
	Updated  int
	Skipped  int
}

func (r Result) Total() int {
	return r.Inserted + r.Updated + r.Skipped
}

// ImportCatalog creates every gadget in r, or updates the existing gadget
// with the same name and brand. Invalid rows are logged and skipped.
func ImportCatalog(ctx context.Context, svc *services.Services, r io.Reader) (Result, error) {
	var rows []*CatalogRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Result{}, fmt.Errorf("failed to read catalog csv: %w", err)
	}

	var result Result
	for i, row := range rows {
		line := i + 2 // header is line 1
		in, specs, err := row.parse()
		if err != nil {
			zap.L().Warn("skipping catalog row", zap.Int("line", line), zap.Error(err))
			result.Skipped++
			continue
		}

		_, err = svc.Gadgets.Create(ctx, in, specs)
		switch {
		case err == nil:
			result.Inserted++
		// parse rejects repeated spec names, so a duplicate here is the gadget itself
		case services.IsKind(err, services.KindDuplicate):
			updated, uerr := update(ctx, svc, in)
			if uerr != nil {
				zap.L().Warn("failed to update catalog row", zap.Int("line", line), zap.Error(uerr))
				result.Skipped++
				continue
			}
			if updated {
				result.Updated++
			} else {
				result.Skipped++
			}
		case services.KindOf(err) != 0:
			zap.L().Warn("skipping catalog row", zap.Int("line", line), zap.Error(err))
			result.Skipped++
		default:
			return result, err
		}
	}
	return result, nil
}

func (row *CatalogRow) parse() (services.GadgetInput, []services.SpecInput, error) {
	category, err := models.ParseCategory(row.Category)
	if err != nil {
		return services.GadgetInput{}, nil, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
	if err != nil {
		return services.GadgetInput{}, nil, fmt.Errorf("invalid price %q", row.Price)
	}

	var specs []services.SpecInput
	seen := map[string]bool{}
	for _, pair := range strings.Split(row.Specifications, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return services.GadgetInput{}, nil, fmt.Errorf("invalid specification %q", pair)
		}
		if seen[name] {
			return services.GadgetInput{}, nil, fmt.Errorf("specification %q is listed more than once", name)
		}
		seen[name] = true
		specs = append(specs, services.SpecInput{Name: name, Value: strings.TrimSpace(value)})
	}

	return services.GadgetInput{
		Name:        row.Name,
		Brand:       row.Brand,
		Category:    category,
		Price:       price,
		Description: row.Description,
		ImageURL:    row.ImageURL,
	}, specs, nil
}

// update rewrites the gadget matching in's name and brand. Specifications
// of existing gadgets are left as they are.
func update(ctx context.Context, svc *services.Services, in services.GadgetInput) (bool, error) {
	existing, err := svc.Gadgets.FindByNameAndBrand(ctx, in.Name, in.Brand)
	if services.IsKind(err, services.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := svc.Gadgets.Update(ctx, existing.ID, in); err != nil {
		return false, err
	}
	return true, nil
}
