// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values reused across multiple
// repositories. Sentinel values let handlers distinguish failure
// scenarios: validation failures, omitted arguments, duplicates,
// missing rows and referential-integrity conflicts each map to a
// different HTTP response.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a write cannot proceed because of
// dependent state, such as deleting a category that books or videos
// still reference. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// Identity-store sentinels. The contract distinguishes an argument that
// was omitted entirely (missing-argument, handlers answer with the
// sentinel text) from one that was supplied but invalid (validation).
var (
	ErrMissingEmail    = errors.New("email is required")
	ErrMissingPassword = errors.New("password is required")
	ErrEmailRequired   = errors.New("email address must be set")
	ErrEmailExists     = errors.New("email already exists")
	ErrNotStaff        = errors.New("superuser must have is_staff=true")
	ErrNotSuperuser    = errors.New("superuser must have is_superuser=true")
)

// Not-found sentinels, one per entity.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrVideoNotFound    = errors.New("video not found")
)

// Uniqueness sentinels surfaced from MySQL duplicate-key failures.
var (
	ErrNameExists = errors.New("name already exists")
	ErrSlugExists = errors.New("slug already exists")
)

// MySQL error numbers sniffed from driver error strings, the same way
// the duplicate-key check is done throughout the handlers' ancestry.
// 1062: duplicate entry, 1451: row is referenced by a child row,
// 1452: referenced parent row does not exist.
func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

func isReferencedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}

func isMissingParentErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

// errContainsIndex reports whether a duplicate-key error names the
// given index (MySQL includes "for key 'tbl.idx'" in the message).
func errContainsIndex(err error, idx string) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), idx)
}
