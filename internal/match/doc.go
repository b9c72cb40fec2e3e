// Package match normalizes free-text track references and scores them against
// indexed file metadata. Scoring blends token overlap with edit-distance
// similarity and stays deliberately conservative: a high score requires real
// word-level agreement, not just a lucky substring.
package match
