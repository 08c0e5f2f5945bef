package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Achievement identifiers unlocked by the ledger.
const (
	AchievementFirst100     = "first-100"
	AchievementScoreMaster  = "score-master"
	AchievementGameExplorer = "game-explorer"
	AchievementPerfectGame  = "perfect-game"
)

var achievementTitles = map[string]string{
	AchievementFirst100:     "🌟 Skor Pertama 100!",
	AchievementScoreMaster:  "🏆 Master Skor 1000!",
	AchievementGameExplorer: "🎮 Penjelajah Game!",
	AchievementPerfectGame:  "💎 Permainan Sempurna!",
}

// AchievementTitle returns the display title of an achievement, or the id itself when unknown.
func AchievementTitle(id string) string {
	if title, ok := achievementTitles[id]; ok {
		return title
	}
	return id
}

// PlayerLedger is the persisted cross-session progress of the single local player.
type PlayerLedger struct {
	TotalPoints  int            `json:"totalPoints"`
	GamesPlayed  int            `json:"gamesPlayed"`
	Achievements []string       `json:"achievements"`
	GameScores   map[string]int `json:"gameScores"`
	LastPlayed   time.Time      `json:"lastPlayed"`
}

// EmptyLedger returns the ledger of a player who has never finished a session.
func EmptyLedger() PlayerLedger {
	return PlayerLedger{
		Achievements: []string{},
		GameScores:   map[string]int{},
	}
}

// Clone returns a deep copy so callers cannot mutate ledger internals.
func (l PlayerLedger) Clone() PlayerLedger {
	out := l
	out.Achievements = append([]string{}, l.Achievements...)
	out.GameScores = make(map[string]int, len(l.GameScores))
	for k, v := range l.GameScores {
		out.GameScores[k] = v
	}
	return out
}

// HasAchievement reports whether id is unlocked.
func (l PlayerLedger) HasAchievement(id string) bool {
	i := sort.SearchStrings(l.Achievements, id)
	return i < len(l.Achievements) && l.Achievements[i] == id
}

// Unlock adds id to the achievement set; it reports false when already present.
func (l *PlayerLedger) Unlock(id string) bool {
	i := sort.SearchStrings(l.Achievements, id)
	if i < len(l.Achievements) && l.Achievements[i] == id {
		return false
	}
	l.Achievements = append(l.Achievements, "")
	copy(l.Achievements[i+1:], l.Achievements[i:])
	l.Achievements[i] = id
	return true
}

// normalize repairs decoded data: nil collections, unsorted or repeated achievements, negatives.
func (l *PlayerLedger) normalize() {
	if l.TotalPoints < 0 {
		l.TotalPoints = 0
	}
	if l.GamesPlayed < 0 {
		l.GamesPlayed = 0
	}
	if l.GameScores == nil {
		l.GameScores = map[string]int{}
	}
	ids := l.Achievements
	l.Achievements = []string{}
	for _, id := range ids {
		if id != "" {
			l.Unlock(id)
		}
	}
}

// EncodeLedger serializes a ledger for storage.
func EncodeLedger(l PlayerLedger) ([]byte, error) {
	l.normalize()
	return json.Marshal(l)
}

// DecodeLedger parses stored ledger bytes.
func DecodeLedger(raw []byte) (PlayerLedger, error) {
	var l PlayerLedger
	if err := json.Unmarshal(raw, &l); err != nil {
		return PlayerLedger{}, err
	}
	l.normalize()
	return l, nil
}
