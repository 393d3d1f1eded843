// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// MangaResolver maps a manga slug to its identity.
type MangaResolver interface {
	Resolve(context context.Context, slug string) (*manga.Ref, error)
}

// ChapterResolver maps a chapter slug to the chapter.
type ChapterResolver interface {
	Resolve(context context.Context, slug string) (*chapter.Chapter, error)
}

// Service implements the comment rules.
type Service struct {
	repo     Repository
	mangas   MangaResolver
	chapters ChapterResolver
	logger   *slog.Logger
}

// NewService constructs a comment [Service].
func NewService(repo Repository, mangas MangaResolver, chapters ChapterResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, mangas: mangas, chapters: chapters, logger: logger}
}

/*
ResolveParent turns a slug target into a [Parent].

Description: A target naming both a manga and a chapter, or neither, is
rejected instead of picking one.

Returns:
  - Parent: The resolved parent
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) ResolveParent(context context.Context, target Target) (Parent, error) {
	mangaSlug := strings.TrimSpace(target.MangaSlug)
	chapterSlug := strings.TrimSpace(target.ChapterSlug)

	switch {
	case mangaSlug != "" && chapterSlug != "":
		return Parent{}, validate.RequiredError(FieldParent, "must name either a manga or a chapter, not both")
	case mangaSlug != "":
		ref, err := service.mangas.Resolve(context, mangaSlug)
		if err != nil {
			return Parent{}, err
		}
		return MangaParent(ref.ID), nil
	case chapterSlug != "":
		chapter, err := service.chapters.Resolve(context, chapterSlug)
		if err != nil {
			return Parent{}, err
		}
		return ChapterParent(chapter.ID), nil
	default:
		return Parent{}, validate.RequiredError(FieldParent, "a manga or a chapter is required")
	}
}

/*
CreateComment posts a comment on a manga or chapter.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - target: Target
  - content: string

Returns:
  - *Comment: The stored comment with its author's username
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) CreateComment(context context.Context, actor sec.Actor, target Target, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	parent, err := service.ResolveParent(context, target)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		UserID:   actor.UserID,
		Username: actor.Username,
		Parent:   parent,
		Content:  content,
	}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("parent_type", string(parent.Kind())),
		slog.String("parent_id", parent.ID()),
		slog.String("user_id", actor.UserID),
	)
	return service.repo.Find(context, comment.ID)
}

// ListForManga returns one page of a manga's comments, newest first.
func (service *Service) ListForManga(context context.Context, mangaSlug string, limit, offset int) ([]*Comment, int, error) {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.ListByParent(context, MangaParent(ref.ID), limit, offset)
}

// ListForChapter returns one page of a chapter's comments, newest first.
func (service *Service) ListForChapter(context context.Context, chapterSlug string, limit, offset int) ([]*Comment, int, error) {
	chapter, err := service.chapters.Resolve(context, chapterSlug)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.ListByParent(context, ChapterParent(chapter.ID), limit, offset)
}

// UpdateComment replaces the text of the actor's own comment.
func (service *Service) UpdateComment(context context.Context, actor sec.Actor, id, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := service.find(context, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(comment.UserID) {
		return nil, apperr.Forbidden("Only the author can edit this comment")
	}

	if err := service.repo.UpdateContent(context, id, content); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", id), slog.String("user_id", actor.UserID))
	return service.repo.Find(context, id)
}

/*
DeleteComment removes a comment.

Description: The author may delete their own comment. Moderators and admins
may delete any comment.
*/
func (service *Service) DeleteComment(context context.Context, actor sec.Actor, id string) error {
	comment, err := service.find(context, id)
	if err != nil {
		return err
	}
	if !actor.Owns(comment.UserID) && !actor.Role.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("Only the author can delete this comment")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", id),
		slog.String("user_id", actor.UserID),
		slog.Bool("moderated", !actor.Owns(comment.UserID)),
	)
	return nil
}

func (service *Service) find(context context.Context, id string) (*Comment, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Comment")
	}
	return service.repo.Find(context, id)
}

func validateContent(content string) error {
	return (&validate.Validator{}).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, maxContentLength).
		Err()
}
