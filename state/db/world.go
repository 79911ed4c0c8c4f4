// Package db is a World backend persisted with gorm on sqlite.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDBPath = "./hookvm.db"

// DBBlock is a block header. The two highest nonces are the current and
// previous blocks.
type DBBlock struct {
	Nonce      uint64 `gorm:"column:nonce;primaryKey;autoIncrement:false"`
	Round      uint64 `gorm:"column:round;not null"`
	Epoch      uint32 `gorm:"column:epoch;not null"`
	Timestamp  uint64 `gorm:"column:block_time;not null"`
	RandomSeed []byte `gorm:"column:random_seed;type:blob"`
}

func (DBBlock) TableName() string {
	return "blocks"
}

// DBAccount is the scalar part of an account.
type DBAccount struct {
	Address          string `gorm:"column:address;primaryKey;size:64"`
	Nonce            uint64 `gorm:"column:nonce;not null;default:0"`
	Balance          string `gorm:"column:balance;not null;default:'0'"`
	DeveloperRewards string `gorm:"column:developer_rewards;not null;default:'0'"`
	Username         []byte `gorm:"column:username;type:blob"`
	Code             []byte `gorm:"column:code;type:blob"`
	CodeMetadata     []byte `gorm:"column:code_metadata;type:blob"`
	Owner            string `gorm:"column:owner_address;size:64"`
}

func (DBAccount) TableName() string {
	return "accounts"
}

// DBStorageEntry is one storage key of an account.
type DBStorageEntry struct {
	ID      uint   `gorm:"primaryKey"`
	Address string `gorm:"column:address;not null;uniqueIndex:idx_storage_key;size:64"`
	Key     []byte `gorm:"column:storage_key;not null;uniqueIndex:idx_storage_key"`
	Value   []byte `gorm:"column:storage_value;type:blob;not null"`
}

func (DBStorageEntry) TableName() string {
	return "account_storage"
}

// DBESDTBalance is one token balance of an account.
type DBESDTBalance struct {
	ID       uint   `gorm:"primaryKey"`
	Address  string `gorm:"column:address;not null;uniqueIndex:idx_esdt;size:64"`
	TokenID  string `gorm:"column:token_id;not null;uniqueIndex:idx_esdt"`
	Nonce    uint64 `gorm:"column:nonce;not null;uniqueIndex:idx_esdt"`
	Balance  string `gorm:"column:balance;not null"`
	Frozen   bool   `gorm:"column:frozen;not null;default:false"`
	Metadata []byte `gorm:"column:metadata;type:blob"` // JSON encoded ESDTMetadata
}

func (DBESDTBalance) TableName() string {
	return "esdt_balances"
}

// DBESDTRole holds the local roles of an account for one token.
type DBESDTRole struct {
	ID      uint   `gorm:"primaryKey"`
	Address string `gorm:"column:address;not null;uniqueIndex:idx_role;size:64"`
	TokenID string `gorm:"column:token_id;not null;uniqueIndex:idx_role"`
	Roles   uint64 `gorm:"column:roles;not null"`
}

func (DBESDTRole) TableName() string {
	return "esdt_roles"
}

// DBToken holds the global settings of a token.
type DBToken struct {
	ID       uint   `gorm:"primaryKey"`
	Address  string `gorm:"column:address;not null;uniqueIndex:idx_token;size:64"`
	TokenID  string `gorm:"column:token_id;not null;uniqueIndex:idx_token"`
	Settings []byte `gorm:"column:settings;type:blob;not null"` // JSON encoded TokenSettings
}

func (DBToken) TableName() string {
	return "tokens"
}

// World reads accounts from sqlite and writes committed updates back.
type World struct {
	db *gorm.DB
}

func init() {
	state.Register(state.DBWorldType, func(params map[string]any) (state.Committer, error) {
		return NewWorld(params)
	})
}

// NewWorld opens the database named by params["db_path"].
func NewWorld(params map[string]any) (*World, error) {
	dbPath := defaultDBPath
	if path, ok := params["db_path"].(string); ok && path != "" {
		dbPath = path
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.AutoMigrate(&DBBlock{}, &DBAccount{}, &DBStorageEntry{}, &DBESDTBalance{}, &DBESDTRole{}, &DBToken{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &World{db: db}, nil
}

// Close releases the database connection.
func (w *World) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddBlock records a block header.
func (w *World) AddBlock(info types.BlockInfo) error {
	row := DBBlock{
		Nonce:      info.Nonce,
		Round:      info.Round,
		Epoch:      info.Epoch,
		Timestamp:  info.Timestamp,
		RandomSeed: info.RandomSeed,
	}
	if err := w.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to save block: %w", err)
	}
	return nil
}

func (w *World) block(offset int) types.BlockInfo {
	var row DBBlock
	err := w.db.Order("nonce desc").Offset(offset).Limit(1).Find(&row).Error
	if err != nil {
		slog.Error("failed to read block", "offset", offset, "error", err)
		return types.BlockInfo{}
	}
	return types.BlockInfo{
		Nonce:      row.Nonce,
		Round:      row.Round,
		Epoch:      row.Epoch,
		Timestamp:  row.Timestamp,
		RandomSeed: row.RandomSeed,
	}
}

func (w *World) CurrentBlock() types.BlockInfo {
	return w.block(0)
}

func (w *World) PreviousBlock() types.BlockInfo {
	return w.block(1)
}

func parseBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// GetAccount loads an account with all of its rows.
func (w *World) GetAccount(addr types.Address) (*state.AccountData, bool, error) {
	key := addr.String()
	var row DBAccount
	err := w.db.Where("address = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query account: %w", err)
	}

	acc := state.NewAccount(addr)
	acc.Nonce = row.Nonce
	acc.Balance = parseBig(row.Balance)
	acc.DeveloperRewards = parseBig(row.DeveloperRewards)
	acc.Username = row.Username
	acc.Code = row.Code
	acc.CodeMetadata = types.CodeMetadataFromBytes(row.CodeMetadata)
	if row.Owner != "" {
		acc.Owner = types.AddressFromString(row.Owner)
	}

	var entries []DBStorageEntry
	if err := w.db.Where("address = ?", key).Find(&entries).Error; err != nil {
		return nil, false, fmt.Errorf("failed to query storage: %w", err)
	}
	for _, e := range entries {
		acc.Storage[string(e.Key)] = e.Value
	}

	var balances []DBESDTBalance
	if err := w.db.Where("address = ?", key).Find(&balances).Error; err != nil {
		return nil, false, fmt.Errorf("failed to query esdt balances: %w", err)
	}
	for _, b := range balances {
		inst := &state.ESDTInstance{Balance: parseBig(b.Balance), Frozen: b.Frozen}
		if len(b.Metadata) > 0 {
			inst.Metadata = &state.ESDTMetadata{}
			if err := json.Unmarshal(b.Metadata, inst.Metadata); err != nil {
				return nil, false, fmt.Errorf("failed to decode esdt metadata: %w", err)
			}
		}
		acc.ESDT[state.ESDTKey{TokenID: b.TokenID, Nonce: b.Nonce}] = inst
	}

	var roles []DBESDTRole
	if err := w.db.Where("address = ?", key).Find(&roles).Error; err != nil {
		return nil, false, fmt.Errorf("failed to query esdt roles: %w", err)
	}
	for _, r := range roles {
		acc.ESDTRoles[r.TokenID] = state.Role(r.Roles)
	}

	var tokens []DBToken
	if err := w.db.Where("address = ?", key).Find(&tokens).Error; err != nil {
		return nil, false, fmt.Errorf("failed to query tokens: %w", err)
	}
	for _, t := range tokens {
		settings := &state.TokenSettings{}
		if err := json.Unmarshal(t.Settings, settings); err != nil {
			return nil, false, fmt.Errorf("failed to decode token settings: %w", err)
		}
		acc.Tokens[t.TokenID] = settings
	}
	return acc, true, nil
}

// Commit writes every updated account in one database transaction.
func (w *World) Commit(updates []*state.AccountData) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		for _, acc := range updates {
			if err := saveAccount(tx, acc); err != nil {
				return fmt.Errorf("failed to save account %s: %w", acc.Address, err)
			}
		}
		return nil
	})
}

func saveAccount(tx *gorm.DB, acc *state.AccountData) error {
	key := acc.Address.String()
	row := DBAccount{
		Address:          key,
		Nonce:            acc.Nonce,
		Balance:          acc.Balance.String(),
		DeveloperRewards: acc.DeveloperRewards.String(),
		Username:         acc.Username,
		Code:             acc.Code,
		CodeMetadata:     acc.CodeMetadata.Bytes(),
	}
	if !acc.Owner.IsZero() {
		row.Owner = acc.Owner.String()
	}
	if err := tx.Save(&row).Error; err != nil {
		return err
	}

	for _, model := range []any{&DBStorageEntry{}, &DBESDTBalance{}, &DBESDTRole{}, &DBToken{}} {
		if err := tx.Where("address = ?", key).Delete(model).Error; err != nil {
			return err
		}
	}

	for _, k := range acc.StorageKeys() {
		entry := DBStorageEntry{Address: key, Key: []byte(k), Value: acc.Storage[k]}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	for id, inst := range acc.ESDT {
		b := DBESDTBalance{
			Address: key,
			TokenID: id.TokenID,
			Nonce:   id.Nonce,
			Balance: inst.Balance.String(),
			Frozen:  inst.Frozen,
		}
		if inst.Metadata != nil {
			data, err := json.Marshal(inst.Metadata)
			if err != nil {
				return err
			}
			b.Metadata = data
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
	}
	for token, roles := range acc.ESDTRoles {
		r := DBESDTRole{Address: key, TokenID: token, Roles: uint64(roles)}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
	}
	for token, settings := range acc.Tokens {
		data, err := json.Marshal(settings)
		if err != nil {
			return err
		}
		t := DBToken{Address: key, TokenID: token, Settings: data}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
	}
	return nil
}
