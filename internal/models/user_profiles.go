package models

import "time"

type UserProfile struct {
	DiscordID            string    `json:"discord_id" gorm:"primaryKey;type:varchar(32)"`
	BGGUsername          *string   `json:"bgg_username,omitempty" gorm:"column:bgg_username;index"`
	SteamID              *string   `json:"steam_id,omitempty"`
	XboxGamertag         *string   `json:"xbox_gamertag,omitempty"`
	WeeklyStatsEnabled   bool      `json:"weekly_stats_enabled" gorm:"default:false"`
	WeeklyStatsChannelID *string   `json:"weekly_stats_channel_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProfilePatch lists only the fields being changed. A nil field is left
// untouched; a pointer to "" clears the stored value.
type ProfilePatch struct {
	BGGUsername          *string
	SteamID              *string
	XboxGamertag         *string
	WeeklyStatsEnabled   *bool
	WeeklyStatsChannelID *string
}

func (p ProfilePatch) Empty() bool {
	return p.BGGUsername == nil && p.SteamID == nil && p.XboxGamertag == nil &&
		p.WeeklyStatsEnabled == nil && p.WeeklyStatsChannelID == nil
}

// PlatformPatch builds the patch that sets a single platform handle.
func PlatformPatch(platform Platform, username string) (ProfilePatch, bool) {
	switch platform {
	case PlatformBGG:
		return ProfilePatch{BGGUsername: &username}, true
	case PlatformSteam:
		return ProfilePatch{SteamID: &username}, true
	case PlatformXbox:
		return ProfilePatch{XboxGamertag: &username}, true
	}
	return ProfilePatch{}, false
}

// ApplyPatch returns a copy of profile with the patch merged in.
func ApplyPatch(profile UserProfile, p ProfilePatch) UserProfile {
	set := func(dst **string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			*dst = nil
			return
		}
		s := *v
		*dst = &s
	}

	set(&profile.BGGUsername, p.BGGUsername)
	set(&profile.SteamID, p.SteamID)
	set(&profile.XboxGamertag, p.XboxGamertag)
	set(&profile.WeeklyStatsChannelID, p.WeeklyStatsChannelID)
	if p.WeeklyStatsEnabled != nil {
		profile.WeeklyStatsEnabled = *p.WeeklyStatsEnabled
	}

	return profile
}

// ServerSettings holds per-guild defaults.
type ServerSettings struct {
	GuildID              string    `json:"guild_id" gorm:"primaryKey;type:varchar(32)"`
	WeeklyStatsChannelID *string   `json:"weekly_stats_channel_id,omitempty"`
	CommandPrefix        string    `json:"command_prefix" gorm:"default:'!'"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
