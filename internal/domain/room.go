package domain

// Room is catalog data owned by an external module; the engine only reads it
// to validate room ids supplied at allocation time.
type Room struct {
	ID       string
	Name     string
	Building string
	RoomType string
	Capacity int
}
