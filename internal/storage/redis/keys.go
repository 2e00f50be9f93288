package redis

import (
	"fmt"

	"github.com/partydeck/playerlink/internal/model"
)

// Key prefix for all player data
const keyPrefix = "playerlink"

// Key generation functions for each entity type

// profileKey returns the Redis key for a PlayerProfile
func profileKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// guestIndexKey returns the Redis key for the guest_id -> profile_id index
func guestIndexKey(guestID model.GuestID) string {
	return fmt.Sprintf("%s:idx:guest:%s", keyPrefix, guestID)
}

// userIndexKey returns the Redis key for the user_id -> profile_id index
func userIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:user:%s", keyPrefix, userID)
}

// accountKey returns the Redis key for an Account
func accountKey(userID model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameStatsKey returns the Redis key for a PlayerGameStats row
func gameStatsKey(profileID model.ProfileID, slug model.GameSlug) string {
	return fmt.Sprintf("%s:stats:%s:%s", keyPrefix, profileID, slug)
}

// statsForProfileIndexKey returns the Redis key for the SET of stats rows for a profile
func statsForProfileIndexKey(profileID model.ProfileID) string {
	return fmt.Sprintf("%s:idx:stats_for_profile:%s", keyPrefix, profileID)
}

// badgesForProfileKey returns the Redis key for the LIST of badges for a profile
func badgesForProfileKey(profileID model.ProfileID) string {
	return fmt.Sprintf("%s:badges:%s", keyPrefix, profileID)
}

// avatarCatalogKey returns the Redis key for the avatar catalog
func avatarCatalogKey() string {
	return fmt.Sprintf("%s:avatar_catalog", keyPrefix)
}
