package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/repository"
	"telegram-shop-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Store paths owned by the remote document tree.
const (
	pathProducts     = "products"
	pathBlogs        = "blogs"
	pathFeedback     = "feedback"
	pathOrders       = "orders"
	pathCategories   = "categories"
	pathRates        = "settings/rates"
	pathRatesHistory = "settings/rates_history"
)

// CatalogUseCase is the single gateway between flows and the document store.
type CatalogUseCase struct {
	store repository.DataStore
	log   *zerolog.Logger
}

func NewCatalogUseCase(store repository.DataStore, logger *zerolog.Logger) *CatalogUseCase {
	return &CatalogUseCase{store: store, log: logger}
}

func fetchChildren[T any](ctx context.Context, store repository.DataStore, path string) (map[string]T, error) {
	raw, err := store.Fetch(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return map[string]T{}, nil
		}
		metrics.StoreOp("fetch", false)
		return nil, err
	}
	metrics.StoreOp("fetch", true)
	out := map[string]T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func (c *CatalogUseCase) append(ctx context.Context, path string, record any) (string, error) {
	id, err := c.store.Append(ctx, path, record)
	metrics.StoreOp("append", err == nil)
	return id, err
}

// Products returns all products sorted by creation time, newest last.
func (c *CatalogUseCase) Products(ctx context.Context) ([]model.Product, error) {
	byID, err := fetchChildren[model.Product](ctx, c.store, pathProducts)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(byID))
	for id, p := range byID {
		p.ID = id
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Product fetches one product; domain.ErrNotFound when it vanished meanwhile.
func (c *CatalogUseCase) Product(ctx context.Context, id string) (*model.Product, error) {
	raw, err := c.store.Fetch(ctx, pathProducts+"/"+id)
	if err != nil {
		return nil, err
	}
	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

func (c *CatalogUseCase) SaveProduct(ctx context.Context, p model.Product) (string, error) {
	p.CreatedAt = time.Now()
	return c.append(ctx, pathProducts, p)
}

// Blogs returns all published blogs, oldest first.
func (c *CatalogUseCase) Blogs(ctx context.Context) ([]model.Blog, error) {
	byID, err := fetchChildren[model.Blog](ctx, c.store, pathBlogs)
	if err != nil {
		return nil, err
	}
	out := make([]model.Blog, 0, len(byID))
	for id, b := range byID {
		b.ID = id
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c *CatalogUseCase) SaveBlog(ctx context.Context, b model.Blog) (string, error) {
	b.CreatedAt = time.Now()
	return c.append(ctx, pathBlogs, b)
}

func (c *CatalogUseCase) SaveFeedback(ctx context.Context, f model.Feedback) (string, error) {
	f.CreatedAt = time.Now()
	return c.append(ctx, pathFeedback, f)
}

func (c *CatalogUseCase) Feedbacks(ctx context.Context) ([]model.Feedback, error) {
	byID, err := fetchChildren[model.Feedback](ctx, c.store, pathFeedback)
	if err != nil {
		return nil, err
	}
	out := make([]model.Feedback, 0, len(byID))
	for id, f := range byID {
		f.ID = id
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c *CatalogUseCase) SaveOrder(ctx context.Context, o model.Order) (string, error) {
	o.CreatedAt = time.Now()
	return c.append(ctx, pathOrders, o)
}

func (c *CatalogUseCase) Orders(ctx context.Context) ([]model.Order, error) {
	byID, err := fetchChildren[model.Order](ctx, c.store, pathOrders)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(byID))
	for id, o := range byID {
		o.ID = id
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// LastOrder returns the user's most recent order, or domain.ErrNotFound.
// It feeds the reuse-last-address/phone quick picks in the purchase flow.
func (c *CatalogUseCase) LastOrder(ctx context.Context, userID int64) (*model.Order, error) {
	orders, err := c.Orders(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(orders) - 1; i >= 0; i-- {
		if orders[i].UserID == userID {
			return &orders[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Categories returns the id → display-name mapping sorted by name.
func (c *CatalogUseCase) Categories(ctx context.Context) ([]model.Category, error) {
	byID, err := fetchChildren[string](ctx, c.store, pathCategories)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(byID))
	for id, name := range byID {
		out = append(out, model.Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *CatalogUseCase) CategoryName(ctx context.Context, id string) (string, error) {
	raw, err := c.store.Fetch(ctx, pathCategories+"/"+id)
	if err != nil {
		return "", err
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("decode category %s: %w", id, err)
	}
	return name, nil
}

func (c *CatalogUseCase) AddCategory(ctx context.Context, id, name string) error {
	err := c.store.Merge(ctx, pathCategories, map[string]any{id: name})
	metrics.StoreOp("merge", err == nil)
	return err
}

// RenameCategory overwrites the display name of an existing category.
func (c *CatalogUseCase) RenameCategory(ctx context.Context, id, name string) error {
	if _, err := c.CategoryName(ctx, id); err != nil {
		return err
	}
	return c.AddCategory(ctx, id, name)
}

func (c *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, pathCategories+"/"+id)
	metrics.StoreOp("delete", err == nil)
	return err
}

// Rates returns the current exchange-rate record; a missing record comes back
// as a zero value, not an error.
func (c *CatalogUseCase) Rates(ctx context.Context) (model.Rates, error) {
	raw, err := c.store.Fetch(ctx, pathRates)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.Rates{}, nil
		}
		return model.Rates{}, err
	}
	var r model.Rates
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Rates{}, fmt.Errorf("decode rates: %w", err)
	}
	return r, nil
}

// SaveRates merges only the provided fields into settings/rates, stamps
// updatedAt, and appends the merged record to the history log.
func (c *CatalogUseCase) SaveRates(ctx context.Context, partial map[string]any) (model.Rates, error) {
	partial["updatedAt"] = time.Now().Format(time.RFC3339)
	if err := c.store.Merge(ctx, pathRates, partial); err != nil {
		metrics.StoreOp("merge", false)
		return model.Rates{}, err
	}
	metrics.StoreOp("merge", true)

	merged, err := c.Rates(ctx)
	if err != nil {
		return model.Rates{}, err
	}
	if _, err := c.append(ctx, pathRatesHistory, merged); err != nil {
		return model.Rates{}, err
	}
	return merged, nil
}
