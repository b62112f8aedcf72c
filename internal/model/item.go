package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annel0/aicup-bot/internal/vec"
)

// ErrUnknownItem возвращается при декодировании предмета неизвестного вида
var ErrUnknownItem = errors.New("unknown item type")

// ItemKind вид предмета в ящике
type ItemKind string

const (
	ItemKindWeapon     ItemKind = "weapon"
	ItemKindHealthPack ItemKind = "health_pack"
	ItemKindMine       ItemKind = "mine"
)

// Item закрытый набор вариантов содержимого ящика.
// Реализации: WeaponItem, HealthPackItem, MineItem.
type Item interface {
	Kind() ItemKind
	isItem()
}

// WeaponItem ящик с оружием
type WeaponItem struct {
	Type WeaponType
}

// HealthPackItem аптечка
type HealthPackItem struct {
	Health int
}

// MineItem мина
type MineItem struct{}

func (WeaponItem) Kind() ItemKind     { return ItemKindWeapon }
func (HealthPackItem) Kind() ItemKind { return ItemKindHealthPack }
func (MineItem) Kind() ItemKind       { return ItemKindMine }

func (WeaponItem) isItem()     {}
func (HealthPackItem) isItem() {}
func (MineItem) isItem()       {}

// itemJSON плоская форма предмета на проводе
type itemJSON struct {
	Type       ItemKind    `json:"type"`
	WeaponType *WeaponType `json:"weapon_type,omitempty"`
	Health     int         `json:"health,omitempty"`
}

func encodeItem(item Item) (itemJSON, error) {
	switch it := item.(type) {
	case WeaponItem:
		wt := it.Type
		return itemJSON{Type: ItemKindWeapon, WeaponType: &wt}, nil
	case HealthPackItem:
		return itemJSON{Type: ItemKindHealthPack, Health: it.Health}, nil
	case MineItem:
		return itemJSON{Type: ItemKindMine}, nil
	case nil:
		return itemJSON{}, fmt.Errorf("%w: пустой предмет", ErrUnknownItem)
	default:
		return itemJSON{}, fmt.Errorf("%w: %T", ErrUnknownItem, item)
	}
}

func decodeItem(raw itemJSON) (Item, error) {
	switch raw.Type {
	case ItemKindWeapon:
		if raw.WeaponType == nil {
			return nil, fmt.Errorf("%w: у оружия не указан weapon_type", ErrUnknownItem)
		}
		return WeaponItem{Type: *raw.WeaponType}, nil
	case ItemKindHealthPack:
		return HealthPackItem{Health: raw.Health}, nil
	case ItemKindMine:
		return MineItem{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, raw.Type)
	}
}

// lootBoxJSON повторяет LootBox с предметом в плоской форме
type lootBoxJSON struct {
	Position vec.Vec2Float `json:"position"`
	Size     vec.Vec2Float `json:"size"`
	Item     itemJSON      `json:"item"`
}

// MarshalJSON кодирует ящик вместе с тегом предмета
func (lb LootBox) MarshalJSON() ([]byte, error) {
	item, err := encodeItem(lb.Item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(lootBoxJSON{
		Position: lb.Position,
		Size:     lb.Size,
		Item:     item,
	})
}

// UnmarshalJSON восстанавливает вариант предмета по тегу type
func (lb *LootBox) UnmarshalJSON(data []byte) error {
	var raw lootBoxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := decodeItem(raw.Item)
	if err != nil {
		return err
	}
	lb.Position = raw.Position
	lb.Size = raw.Size
	lb.Item = item
	return nil
}
