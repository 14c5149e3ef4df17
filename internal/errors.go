package internal

import "errors"

var ErrLinkNotFound = errors.New("link not found")
var ErrNotEditing = errors.New("no edit in progress")
var ErrUnknownTag = errors.New("unknown tag")
var ErrUnknownNiche = errors.New("unknown niche")
