// Package steamid converts between the Steam identifier formats players
// paste into the tool and the 32-bit account id the match-data service
// keys on.
package steamid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// steamID64Base is the offset between a 32-bit account id and a SteamID64.
const steamID64Base = 76561197960265728

// IsRadiant reports whether a player_slot denotes the Radiant side.
// Slots 0-127 are Radiant, 128-255 are Dire.
func IsRadiant(playerSlot int) bool {
	return playerSlot < 128
}

// ToAccountID converts a SteamID64 to the 32-bit account id.
func ToAccountID(steamID64 uint64) int64 {
	return int64(steamID64 - steamID64Base)
}

// ToSteamID64 converts a 32-bit account id to a SteamID64.
func ToSteamID64(accountID int64) uint64 {
	return uint64(accountID) + steamID64Base
}

// Kind labels how an input string was recognized.
type Kind string

const (
	KindSteam64 Kind = "steam64"   // 17-digit SteamID64
	KindAccount Kind = "account32" // 32-bit friend id
	KindSteam2  Kind = "steam2"    // STEAM_X:Y:Z
	KindSteam3  Kind = "steam3"    // [U:1:N]
	KindProfile Kind = "profile"   // steamcommunity.com/profiles/<id64>
	KindName    Kind = "name"      // persona name or vanity, needs search
)

// Parsed is the result of recognizing one identifier input.
type Parsed struct {
	Kind      Kind
	AccountID int64  // set for every kind except KindName
	Query     string // set for KindName: the text to search for
}

var (
	profileURLRe = regexp.MustCompile(`(?i)https?://steamcommunity\.com/(profiles|id)/([^/\s#?]+)`)
	steam2Re     = regexp.MustCompile(`(?i)^STEAM_([0-5]):([01]):(\d+)$`)
	steam3Re     = regexp.MustCompile(`(?i)^\[U:1:(\d+)\]$`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
)

// Parse recognizes a raw input string as one of the supported identifier
// formats. Names and vanity URLs are not resolved here; callers feed the
// returned query to a search.
func Parse(raw string) (Parsed, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Parsed{}, fmt.Errorf("empty input")
	}

	if m := profileURLRe.FindStringSubmatch(s); m != nil {
		part := m[2]
		if strings.EqualFold(m[1], "profiles") && len(part) == 17 && digitsRe.MatchString(part) {
			id64, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return Parsed{}, fmt.Errorf("invalid profile id %q", part)
			}
			return Parsed{Kind: KindProfile, AccountID: ToAccountID(id64)}, nil
		}
		// /id/<vanity> — treat the vanity as a searchable name.
		return Parsed{Kind: KindName, Query: part}, nil
	}

	if digitsRe.MatchString(s) {
		switch {
		case len(s) == 17:
			id64, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return Parsed{}, fmt.Errorf("invalid SteamID64 %q", s)
			}
			return Parsed{Kind: KindSteam64, AccountID: ToAccountID(id64)}, nil
		case len(s) <= 10:
			id32, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Parsed{}, fmt.Errorf("invalid account id %q", s)
			}
			return Parsed{Kind: KindAccount, AccountID: id32}, nil
		}
		return Parsed{}, fmt.Errorf("numeric input %q is neither a SteamID64 nor an account id", s)
	}

	if m := steam2Re.FindStringSubmatch(s); m != nil {
		authServer, _ := strconv.ParseInt(m[2], 10, 64)
		accountNumber, _ := strconv.ParseInt(m[3], 10, 64)
		return Parsed{Kind: KindSteam2, AccountID: accountNumber*2 + authServer}, nil
	}

	if m := steam3Re.FindStringSubmatch(s); m != nil {
		id32, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Parsed{}, fmt.Errorf("invalid Steam3 id %q", s)
		}
		return Parsed{Kind: KindSteam3, AccountID: id32}, nil
	}

	return Parsed{Kind: KindName, Query: s}, nil
}
