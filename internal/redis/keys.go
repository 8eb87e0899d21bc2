package redisx

const ns = "railgo:v1"

func ChannelJourneysChanged() string {
	return ns + ":journeys:changed"
}
