// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter manages chapters and their pages.

A chapter belongs to one manga and is unique per (manga, volume, number). Its
slug is recomputed from the manga's canonical key, the volume and the number
on every save, so it always reflects the current values.

Pages belong to one chapter and are unique per (chapter, page number). When
no number is given the next free one is assigned by the database.
*/
package chapter

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
)

// Chapter is one release of a manga.
type Chapter struct {
	ID        string     `json:"id"`
	MangaID   string     `json:"-"`
	Manga     *manga.Ref `json:"manga,omitempty"`
	Title     string     `json:"title"`
	Volume    int        `json:"volume"`
	Number    int        `json:"chapter_number"`
	Slug      string     `json:"slug"`
	Pages     []*Page    `json:"pages,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Page is a single scanned image of a chapter.
type Page struct {
	ID         string    `json:"id"`
	ChapterID  string    `json:"-"`
	Image      string    `json:"-"`
	ImageURL   string    `json:"image_url"`
	PageNumber int       `json:"page_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateInput carries the fields accepted when creating a chapter.
type CreateInput struct {
	Title  string `json:"title"`
	Volume int    `json:"volume"`
	Number int    `json:"chapter_number"`
}

// Patch carries a partial chapter update.
type Patch struct {
	Title  *string `json:"title"`
	Volume *int    `json:"volume"`
	Number *int    `json:"chapter_number"`
}

// Created is published once a new chapter has been committed. Updates of an
// existing chapter never publish it. CreatedAt is the commit-time timestamp
// of the chapter row and bounds who counts as a subscriber.
type Created struct {
	ChapterID string
	MangaID   string
	Slug      string
	CreatedAt time.Time
}

// EventName implements events.Event.
func (Created) EventName() string { return "chapter.created" }

const (
	FieldTitle      = "title"
	FieldVolume     = "volume"
	FieldNumber     = "chapter_number"
	FieldPageNumber = "page_number"
	FieldImage      = "image"

	// PageDir is the storage folder for page scans.
	PageDir = "chapters/pages"

	maxTitleLength = 50
)
