package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/quillzy/quillzy/ai/textproc"
	"github.com/quillzy/quillzy/store"
)

const (
	feedTitle       = "Quillzy"
	feedDescription = "Recently published posts"
	rssContentType  = "application/rss+xml; charset=utf-8"
)

// GetRSS renders the latest published posts of every author as RSS 2.0.
func (s *APIV1Service) GetRSS(c echo.Context) error {
	status := store.PostStatusPublished
	limit := listLimit
	posts, err := s.Store.ListPosts(c.Request().Context(), &store.FindPost{Status: &status, Limit: &limit})
	if err != nil {
		return internalError(err, "Failed to list posts")
	}

	baseURL := strings.TrimSuffix(s.Profile.InstanceURL, "/")
	feed := &feeds.Feed{
		Title:       feedTitle,
		Link:        &feeds.Link{Href: baseURL},
		Description: feedDescription,
		Created:     time.Now(),
	}
	for _, post := range posts {
		item, err := s.feedItem(baseURL, post)
		if err != nil {
			return internalError(err, "Failed to render feed")
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return internalError(err, "Failed to render feed")
	}
	return c.Blob(http.StatusOK, rssContentType, []byte(rss))
}

func (*APIV1Service) feedItem(baseURL string, post *store.Post) (*feeds.Item, error) {
	description, err := renderSummary(post.PlainText)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/posts/%s", baseURL, post.ID)
	item := &feeds.Item{
		Id:          post.ID,
		Title:       post.Title,
		Link:        &feeds.Link{Href: link},
		Author:      &feeds.Author{Email: post.UserEmail},
		Description: description,
		Created:     time.Unix(post.CreatedTs, 0),
		Updated:     time.Unix(post.UpdatedTs, 0),
	}
	if post.PublishedTs != nil {
		item.Created = time.Unix(*post.PublishedTs, 0)
	}
	return item, nil
}

// renderSummary turns the local markdown summary of text into HTML.
func renderSummary(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(textproc.GenerateSummaryFallback(text)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
