// Package feed loads the read-only catalog document (products, publishers and
// demo accounts) and serves it through repository.CatalogRepository.
package feed

import (
	"context"
	_ "embed"
	"log/slog"
	"os"
	"slices"

	"keystore/config"
	"keystore/internal/domain/entity"
	"keystore/internal/domain/repository"
	"keystore/internal/errors"
	"keystore/internal/util"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

// PlaceholderImage is used for products that ship without any artwork.
const PlaceholderImage = "/img/placeholder.png"

//go:embed seed.yaml
var embeddedSeed []byte

// Document is the on-disk catalog format.
type Document struct {
	Publishers []*entity.Publisher `yaml:"publishers"`
	Products   []*entity.Product   `yaml:"products"`
	Users      []*entity.SeedUser  `yaml:"users"`
}

type catalogRepository struct {
	products   []*entity.Product
	index      map[string]*entity.Product
	publishers []*entity.Publisher
	users      []*entity.SeedUser
}

// Params defines the parameters required for the catalog feed
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New loads the configured seed file, or the embedded seed when none is set.
func New(params Params) (repository.CatalogRepository, error) {
	raw := embeddedSeed
	source := "embedded"

	if params.Config.Catalog != nil && params.Config.Catalog.SeedPath != "" {
		source = params.Config.Catalog.SeedPath

		data, err := os.ReadFile(source)
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog seed %s", source)
		}
		raw = data
	}

	repo, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog seed %s", source)
	}

	params.Logger.Info("Catalog feed loaded",
		slog.String("source", source),
		slog.Int("products", len(repo.(*catalogRepository).products)),
		slog.String("size", util.FormatBytes(int64(len(raw)))),
		slog.String("checksum", util.ShortChecksum(raw)),
	)

	return repo, nil
}

// Parse decodes a catalog document and resolves optional product fields.
func Parse(raw []byte) (repository.CatalogRepository, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WithStack(err)
	}

	repo := &catalogRepository{
		index:      make(map[string]*entity.Product, len(doc.Products)),
		publishers: doc.Publishers,
		users:      doc.Users,
	}

	for _, p := range doc.Products {
		if p == nil || p.ID == "" {
			return nil, errors.New("catalog product without id")
		}
		if _, dup := repo.index[p.ID]; dup {
			return nil, errors.Errorf("duplicate catalog product id %q", p.ID)
		}

		resolveDefaults(p)
		repo.products = append(repo.products, p)
		repo.index[p.ID] = p
	}

	return repo, nil
}

func resolveDefaults(p *entity.Product) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Genres == nil {
		p.Genres = []string{}
	}
	if p.Image == "" {
		if len(p.Images) > 0 {
			p.Image = p.Images[0]
		} else {
			p.Image = PlaceholderImage
		}
	}
	p.Discount = min(max(p.Discount, 0), 100)
}

func (repo *catalogRepository) ListProducts(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(repo.products))
	for _, p := range repo.products {
		out = append(out, cloneProduct(p))
	}

	return out, nil
}

func (repo *catalogRepository) FindProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := repo.index[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return cloneProduct(p), nil
}

func (repo *catalogRepository) ListPublishers(_ context.Context) ([]*entity.Publisher, error) {
	out := make([]*entity.Publisher, 0, len(repo.publishers))
	for _, p := range repo.publishers {
		cp := *p
		out = append(out, &cp)
	}

	return out, nil
}

func (repo *catalogRepository) SeedUsers(_ context.Context) ([]*entity.SeedUser, error) {
	out := make([]*entity.SeedUser, 0, len(repo.users))
	for _, u := range repo.users {
		cp := *u
		out = append(out, &cp)
	}

	return out, nil
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Genres = slices.Clone(p.Genres)
	cp.Images = slices.Clone(p.Images)
	cp.Features = slices.Clone(p.Features)

	return &cp
}
