package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/partydeck/playerlink/internal/api/response"
	"github.com/partydeck/playerlink/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.FullProfile:
		o.printFullProfile(v)
	case model.PlayerProfile:
		o.printProfile(v)
	case response.Auth:
		o.printAuth(v)
	case response.Avatars:
		o.printAvatars(v)
	case response.Health:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printProfile(p model.PlayerProfile) {
	kind := "registered"
	if p.IsGuest() {
		kind = "guest"
	}
	fmt.Printf("Profile: %s (%s, %s)\n", p.DisplayName, p.ID, kind)
	if p.AvatarID != "" {
		fmt.Printf("Avatar: %s\n", p.AvatarID)
	}
	fmt.Printf("Games: %d played, %d won, %d points\n",
		p.TotalGamesPlayed, p.TotalWins, p.TotalPointsEarned)
	if p.DominantTrait != "" {
		fmt.Printf("Trait: %s\n", p.DominantTrait)
	}
}

func (o *Output) printFullProfile(full *model.FullProfile) {
	if full == nil {
		fmt.Println("No profile")
		return
	}

	o.printProfile(full.Profile)

	if len(full.Stats) > 0 {
		fmt.Println("\nPer-game stats:")
		for _, st := range full.Stats {
			fmt.Printf("  %s: %d played, %d won, %d points\n",
				st.GameSlug, st.GamesPlayed, st.GamesWon, st.PointsEarned)
		}
	}

	if len(full.Badges) > 0 {
		fmt.Println("\nBadges:")
		for _, b := range full.Badges {
			scope := ""
			if b.GameSlug != "" {
				scope = fmt.Sprintf(" [%s]", b.GameSlug)
			}
			fmt.Printf("  - %s%s: %s\n", b.Name, scope, b.Description)
		}
	}

	if len(full.Personality) > 0 {
		traits := make([]string, 0, len(full.Personality))
		for trait, score := range full.Personality {
			traits = append(traits, fmt.Sprintf("%s=%d", trait, score))
		}
		sort.Strings(traits)
		fmt.Printf("\nPersonality: %s\n", strings.Join(traits, ", "))
	}
}

func (o *Output) printAuth(a response.Auth) {
	fmt.Printf("User: %s\n", a.UserID)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printAvatars(a response.Avatars) {
	fmt.Printf("Avatars (%d):\n", len(a.Avatars))
	for _, key := range a.Avatars {
		fmt.Printf("  - %s\n", key)
	}
}
