package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
)

const newsProvider = "news"

// GetTopHeadlines returns business headlines for a country code, serving
// from cache when fresh.
func (s *Service) GetTopHeadlines(ctx context.Context, country string) ([]models.Article, error) {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		country = "us"
	}

	cacheKey := "headlines:" + country
	var cached []models.Article
	if s.cache.GetInto(catNews, cacheKey, &cached) {
		return cached, nil
	}

	u := fmt.Sprintf("%s/v2/top-headlines?category=business&country=%s&apiKey=%s",
		s.cfg.News.BaseURL, url.QueryEscape(country), url.QueryEscape(s.cfg.News.APIKey))
	articles, err := s.fetchNews(ctx, u)
	if err != nil {
		s.logger.Warn().Str("country", country).Str("error", err.Error()).Msg("headlines fetch failed")
		return nil, err
	}

	s.cache.Set(catNews, cacheKey, articles, common.FreshnessNews)
	return articles, nil
}

// SearchNews returns articles matching the query, newest first, serving
// from cache when fresh.
func (s *Service) SearchNews(ctx context.Context, query string) ([]models.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	cacheKey := "search:" + strings.ToLower(query)
	var cached []models.Article
	if s.cache.GetInto(catNews, cacheKey, &cached) {
		return cached, nil
	}

	u := fmt.Sprintf("%s/v2/everything?q=%s&sortBy=publishedAt&apiKey=%s",
		s.cfg.News.BaseURL, url.QueryEscape(query), url.QueryEscape(s.cfg.News.APIKey))
	articles, err := s.fetchNews(ctx, u)
	if err != nil {
		s.logger.Warn().Str("query", query).Str("error", err.Error()).Msg("news search failed")
		return nil, err
	}

	s.cache.Set(catNews, cacheKey, articles, common.FreshnessNews)
	return articles, nil
}

func (s *Service) fetchNews(ctx context.Context, u string) ([]models.Article, error) {
	body, err := s.getJSON(ctx, u)
	if err != nil {
		return nil, err
	}
	return parseNewsPayload(body)
}

// parseNewsPayload normalizes a NewsAPI-style response. The provider puts
// its status inside the payload: "ok" on success, otherwise a code and
// message describe the failure regardless of the HTTP status.
func parseNewsPayload(body []byte) ([]models.Article, error) {
	var payload struct {
		Status   string `json:"status"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			URL         string    `json:"url"`
			PublishedAt time.Time `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProviderError{Provider: newsProvider, Kind: KindMalformed, Message: err.Error()}
	}
	if payload.Status != "ok" {
		kind := KindUpstreamError
		if payload.Code == "rateLimited" {
			kind = KindRateLimited
		}
		msg := payload.Message
		if msg == "" {
			msg = "status " + payload.Status
		}
		return nil, &ProviderError{Provider: newsProvider, Kind: kind, Message: msg}
	}

	articles := make([]models.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
