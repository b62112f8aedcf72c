package model

import "fmt"

// WeaponType определяет тип оружия
type WeaponType uint8

const (
	WeaponPistol WeaponType = iota
	WeaponAssaultRifle
	WeaponRocketLauncher
)

var weaponNames = map[WeaponType]string{
	WeaponPistol:         "pistol",
	WeaponAssaultRifle:   "assault_rifle",
	WeaponRocketLauncher: "rocket_launcher",
}

func (w WeaponType) String() string {
	if name, ok := weaponNames[w]; ok {
		return name
	}
	return fmt.Sprintf("weapon(%d)", uint8(w))
}

// MarshalText реализует encoding.TextMarshaler
func (w WeaponType) MarshalText() ([]byte, error) {
	name, ok := weaponNames[w]
	if !ok {
		return nil, fmt.Errorf("неизвестный тип оружия %d", uint8(w))
	}
	return []byte(name), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (w *WeaponType) UnmarshalText(text []byte) error {
	for wt, name := range weaponNames {
		if name == string(text) {
			*w = wt
			return nil
		}
	}
	return fmt.Errorf("неизвестный тип оружия %q", text)
}

// Weapon оружие в руках юнита
type Weapon struct {
	Type      WeaponType `json:"type"`
	Magazine  int        `json:"magazine"`
	FireTimer *float64   `json:"fire_timer,omitempty"`
}

// IsEmpty сообщает, что магазин пуст
func (w *Weapon) IsEmpty() bool {
	return w.Magazine == 0
}
