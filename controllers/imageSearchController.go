package controllers

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxImageResults = 3

// the scraped page serves different HTML to non-browser agents
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	// strategy 1: image URLs inside the embedded JSON blob
	jsonImageRe = regexp.MustCompile(`\["(https?://[^"]+?\.(?:jpg|jpeg|png|webp))",\d+,\d+\]`)
	// strategy 2: plain <img> tags
	imgTagRe = regexp.MustCompile(`<img[^>]+src="(https?://[^"]+?)"`)
	// strategy 3: any image-looking URL in the raw HTML
	rawURLRe = regexp.MustCompile(`https?://[^\s"'<>\\]+?\.(?:jpg|jpeg|png|webp)`)
)

// ExtractImageURLs pulls up to three image URLs out of scraped result
// HTML, trying the three strategies in order and falling through when one
// finds nothing. Duplicates are dropped. This has no contract with the
// scraped page and silently returns fewer (or zero) results when its
// markup changes.
func ExtractImageURLs(html string) []string {
	seen := map[string]bool{}
	results := []string{}

	add := func(u string) {
		if len(results) >= maxImageResults || seen[u] || strings.Contains(u, "gstatic.com/ui") {
			return
		}
		seen[u] = true
		results = append(results, u)
	}

	for _, m := range jsonImageRe.FindAllStringSubmatch(html, -1) {
		add(m[1])
	}
	if len(results) == 0 {
		for _, m := range imgTagRe.FindAllStringSubmatch(html, -1) {
			add(m[1])
		}
	}
	if len(results) == 0 {
		for _, m := range rawURLRe.FindAllString(html, -1) {
			add(m)
		}
	}

	return results
}

// SearchImages scrapes the image search page for up to three image URLs
// matching the query. Scrape failures come back as an empty list, not an
// error; the caller treats "no results" and "page changed" the same way.
func SearchImages(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	searchURL := "https://www.google.com/search?tbm=isch&q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, searchURL, nil)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"images": []string{}})
		return
	}
	req.Header.Set("User-Agent", browserUserAgent)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"images": []string{}})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusOK, gin.H{"images": []string{}})
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"images": []string{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": ExtractImageURLs(string(body))})
}
