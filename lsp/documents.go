package lsp

import (
	"sort"
	"sync"
)

// Document is the client's current view of an open text document.
type Document struct {
	URI     string
	Version int
	Text    string
}

// DocumentStore holds open documents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]Document)}
}

// Set stores doc, replacing any previous version.
func (s *DocumentStore) Set(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.URI] = doc
}

// Get returns the document for uri.
func (s *DocumentStore) Get(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// Delete forgets the document for uri.
func (s *DocumentStore) Delete(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// URIs returns the URIs of all open documents in sorted order.
func (s *DocumentStore) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
