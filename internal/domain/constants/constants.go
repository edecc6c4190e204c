// Package constants holds string identifiers shared across layers.
package constants

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Environments
const (
	EnvDevelop = "develop"
)

// Attribute keys carried on published state change messages
const (
	AttrRequestID  = "request_id"
	AttrEventID    = "event_id"
	AttrNamespace  = "namespace"
	AttrCollection = "collection"
)
