package importer

import (
	"errors"
	"time"

	"venttos-backend/internal/models"

	"gorm.io/gorm"
)

// Store é o que a reconciliação precisa do banco: busca/criação de cliente
// por nome exato e upsert de ItemStatus pela chave natural (modelo, data).
// Os Find retornam (nil, nil) quando o registro não existe.
type Store interface {
	FindClienteByNome(nome string) (*models.Cliente, error)
	CreateCliente(c *models.Cliente) error
	FindItemStatus(modelo string, data time.Time) (*models.ItemStatus, error)
	SaveItemStatus(st *models.ItemStatus) error

	// Transaction roda fn com uma visão transacional do Store. A importação
	// inteira roda dentro de UMA transação: ou entra tudo, ou nada.
	Transaction(fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindClienteByNome(nome string) (*models.Cliente, error) {
	var c models.Cliente
	err := s.db.Where("nome = ?", nome).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) CreateCliente(c *models.Cliente) error {
	return s.db.Create(c).Error
}

func (s *gormStore) FindItemStatus(modelo string, data time.Time) (*models.ItemStatus, error) {
	var st models.ItemStatus
	err := s.db.Where("modelo = ? AND data = ?", modelo, data).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *gormStore) SaveItemStatus(st *models.ItemStatus) error {
	return s.db.Save(st).Error
}

func (s *gormStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
