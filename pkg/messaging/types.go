package messaging

import "time"

type ChangeTopic string

const (
	TrackingTopic  ChangeTopic = "tracking"
	CatalogChanged ChangeTopic = "catalog_changed"
)

// Durable reports whether the topic keeps a named queue for consumers outside
// this module. Other topics are only read through exclusive listener queues.
func (t ChangeTopic) Durable() bool {
	return t == TrackingTopic
}

// DefaultPrefix is put in front of every exchange and queue name.
const DefaultPrefix = "global"

type RabbitConfig struct {
	Url    string
	Prefix string
}

// CatalogChange is published when the backend catalog was replaced.
type CatalogChange struct {
	Products  int       `json:"products"`
	ChangedAt time.Time `json:"changed_at"`
}
