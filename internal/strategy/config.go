package strategy

// Config содержит пороги стратегии
type Config struct {
	// HealthThreshold ниже этого здоровья юнит идёт за аптечкой
	HealthThreshold int `yaml:"health_threshold" json:"health_threshold"`
	// AdjacencyDistance расстояние по X до врага на том же ряду, при котором ставится мина
	AdjacencyDistance float64 `yaml:"adjacency_distance" json:"adjacency_distance"`
}

// DefaultConfig возвращает стандартные пороги
func DefaultConfig() Config {
	return Config{
		HealthThreshold:   70,
		AdjacencyDistance: 1,
	}
}
