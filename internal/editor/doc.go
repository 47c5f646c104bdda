// Package editor implements the pair detail editor: draft-based editing for
// the long-text fields, immediate application for toggles and selections,
// and the two terminal actions (approve, request reshoot).
package editor
