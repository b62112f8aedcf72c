package model

import "github.com/annel0/aicup-bot/internal/vec"

// UnitAction команда юниту на один тик
type UnitAction struct {
	Velocity   float64       `json:"velocity"`
	Jump       bool          `json:"jump"`
	JumpDown   bool          `json:"jump_down"`
	Aim        vec.Vec2Float `json:"aim"`
	Shoot      bool          `json:"shoot"`
	Reload     bool          `json:"reload"`
	SwapWeapon bool          `json:"swap_weapon"`
	PlantMine  bool          `json:"plant_mine"`
}
