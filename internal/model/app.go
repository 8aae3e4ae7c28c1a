package model

import "strings"

// AppDescriptor pairs an App Store id with its display name.
type AppDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Apps is the fixed, ordered catalog the selector offers.
var Apps = []AppDescriptor{
	{ID: "447188370", Name: "Snapchat"},
	{ID: "719972451", Name: "Door Dash"},
	{ID: "544007664", Name: "Youtube"},
}

// DefaultAppID is used when no default_app is configured.
const DefaultAppID = "447188370"

// IndexOf returns the catalog index for an id or a case-insensitive name.
func IndexOf(apps []AppDescriptor, key string) (int, bool) {
	key = strings.TrimSpace(key)
	for i, a := range apps {
		if a.ID == key || strings.EqualFold(a.Name, key) {
			return i, true
		}
	}
	return -1, false
}

// Lookup is IndexOf returning the descriptor itself.
func Lookup(apps []AppDescriptor, key string) (AppDescriptor, bool) {
	i, ok := IndexOf(apps, key)
	if !ok {
		return AppDescriptor{}, false
	}
	return apps[i], true
}
