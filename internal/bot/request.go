package bot

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// User is the part of a Discord user the handlers care about.
type User struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
}

// Request is an interaction flattened into plain values.
type Request struct {
	ID        string
	Log       *slog.Logger
	Caller    User
	ChannelID string
	GuildID   string

	// Component interactions only.
	CustomID string
	Values   []string

	options map[string]*discordgo.ApplicationCommandInteractionDataOption
	users   map[string]User
}

func newRequest(i *discordgo.InteractionCreate) *Request {
	req := &Request{
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		options:   make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
		users:     make(map[string]User),
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		req.Caller = memberUser(i.Member.User, i.Member)
	case i.User != nil:
		req.Caller = memberUser(i.User, nil)
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		for _, opt := range data.Options {
			req.options[opt.Name] = opt
		}
		if data.Resolved != nil {
			for id, u := range data.Resolved.Users {
				req.users[id] = memberUser(u, data.Resolved.Members[id])
			}
		}
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		req.CustomID = data.CustomID
		req.Values = data.Values
	}

	return req
}

func memberUser(u *discordgo.User, m *discordgo.Member) User {
	out := User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.Username,
		AvatarURL:   u.AvatarURL(""),
	}
	if u.GlobalName != "" {
		out.DisplayName = u.GlobalName
	}
	if m != nil && m.Nick != "" {
		out.DisplayName = m.Nick
	}
	return out
}

// String returns a string option, or def when it is missing or blank.
func (r *Request) String(name, def string) string {
	opt, ok := r.options[name]
	if !ok {
		return def
	}
	s, ok := opt.Value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Int returns an integer option. Gateway JSON delivers numbers as float64.
func (r *Request) Int(name string, def int) int {
	opt, ok := r.options[name]
	if !ok {
		return def
	}
	switch v := opt.Value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func (r *Request) Bool(name string, def bool) bool {
	opt, ok := r.options[name]
	if !ok {
		return def
	}
	if v, ok := opt.Value.(bool); ok {
		return v
	}
	return def
}

// User returns a user option resolved to its user record, falling back to
// the caller.
func (r *Request) User(name string) User {
	id := r.String(name, "")
	if id == "" {
		return r.Caller
	}
	if u, ok := r.users[id]; ok {
		return u
	}
	return User{ID: id, DisplayName: "User"}
}

// Response is what a handler wants sent back. DirectMessage, when set, is
// also sent privately to the caller.
type Response struct {
	Content       string
	Embeds        []*discordgo.MessageEmbed
	Components    []discordgo.MessageComponent
	Ephemeral     bool
	DirectMessage *discordgo.MessageEmbed
}

func (r *Response) webhookParams() *discordgo.WebhookParams {
	p := &discordgo.WebhookParams{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: r.Components,
	}
	if r.Ephemeral {
		p.Flags = discordgo.MessageFlagsEphemeral
	}
	return p
}

func reply(content string) *Response {
	return &Response{Content: content}
}

func embedReply(e *discordgo.MessageEmbed) *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{e}}
}

func errorResponse() *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{ErrorEmbed()}, Ephemeral: true}
}
