package catalogservice

// Entity бронируемая сущность из каталога (офис, переговорная, рабочее место)
type Entity struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
