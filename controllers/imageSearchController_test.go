package controllers

import (
	"strings"
	"testing"
)

func TestExtractImageURLsFromJSONBlob(t *testing.T) {
	html := `var data = [["https://example.com/a.jpg",640,480],["https://example.com/b.png",800,600],` +
		`["https://example.com/c.webp",320,240],["https://example.com/d.jpg",100,100]];`

	got := ExtractImageURLs(html)
	if len(got) != 3 {
		t.Fatalf("got %d urls, want capped at 3: %v", len(got), got)
	}
	if got[0] != "https://example.com/a.jpg" {
		t.Errorf("first url = %q", got[0])
	}
}

func TestExtractImageURLsFallsBackToImgTags(t *testing.T) {
	html := `<div><img class="thumb" src="https://cdn.example.com/pic.jpg" alt=""></div>`

	got := ExtractImageURLs(html)
	if len(got) != 1 || got[0] != "https://cdn.example.com/pic.jpg" {
		t.Fatalf("img tag fallback failed: %v", got)
	}
}

func TestExtractImageURLsRawURLFallback(t *testing.T) {
	html := `nothing structured here, just https://files.example.com/photo.jpeg in text`

	got := ExtractImageURLs(html)
	if len(got) != 1 || got[0] != "https://files.example.com/photo.jpeg" {
		t.Fatalf("raw url fallback failed: %v", got)
	}
}

func TestExtractImageURLsDeduplicates(t *testing.T) {
	url := "https://example.com/same.jpg"
	html := strings.Repeat(`["`+url+`",10,10]`, 5)

	got := ExtractImageURLs(html)
	if len(got) != 1 {
		t.Fatalf("got %d urls after dedupe, want 1: %v", len(got), got)
	}
}

func TestExtractImageURLsEmptyInput(t *testing.T) {
	if got := ExtractImageURLs(""); len(got) != 0 {
		t.Fatalf("empty html should yield no urls, got %v", got)
	}
}
