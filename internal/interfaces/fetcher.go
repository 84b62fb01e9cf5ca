package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*types.Article, error)
}
