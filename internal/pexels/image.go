package pexels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wanderai-backend/internal/models"
)

// FallbackQuery is searched when the destination itself has no photos.
const FallbackQuery = "travel destination"

// DestinationImage returns the first landscape photo for destination, falling
// back to a generic travel photo. Found images are cached per destination.
// Both searches together stay within the client timeout.
func (c *Client) DestinationImage(ctx context.Context, destination string) (*models.DestinationImage, error) {
	key := strings.ToLower(strings.TrimSpace(destination))
	if key == "" {
		return nil, ErrEmptyQuery
	}
	if cached, ok := c.cache.Get(key); ok {
		img := *cached.(*models.DestinationImage)
		return &img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	photo, err := c.firstPhoto(ctx, destination)
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNotConfigured) {
		return nil, err
	}
	if err != nil {
		c.log.WarnContext(ctx, "destination photo search failed", "destination", destination, "error", err)
	}
	if photo == nil {
		c.log.InfoContext(ctx, "no photos for destination, trying fallback query", "destination", destination)
		if photo, err = c.firstPhoto(ctx, FallbackQuery); err != nil {
			return nil, err
		}
	}
	if photo == nil {
		c.log.WarnContext(ctx, "no images found", "destination", destination)
		return nil, fmt.Errorf("%w for %q", ErrNoImage, destination)
	}

	img := &models.DestinationImage{
		ImageURL:        photo.Src.Large,
		Photographer:    photo.Photographer,
		PhotographerURL: photo.PhotographerURL,
		PexelsURL:       photo.URL,
		AvgColor:        photo.AvgColor,
	}
	cachedImg := *img
	c.cache.SetDefault(key, &cachedImg)
	return img, nil
}

func (c *Client) firstPhoto(ctx context.Context, query string) (*Photo, error) {
	res, err := c.Search(ctx, query, "landscape", c.perPage)
	if err != nil {
		return nil, err
	}
	if len(res.Photos) == 0 {
		return nil, nil
	}
	return &res.Photos[0], nil
}
