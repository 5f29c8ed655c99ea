package store

import (
	"database/sql"

	"github.com/cuddles47/electroshop/internal/models"
)

func (s *Store) CreateProduct(p *models.Product) error {
	query := `INSERT INTO products (id, title, price, in_stock) VALUES (?, ?, ?, ?)`
	_, err := s.DB.Exec(query, p.ID, p.Title, p.Price, p.InStock)
	return err
}

func (s *Store) GetProductByID(id string) (*models.Product, error) {
	query := `SELECT id, title, price, in_stock FROM products WHERE id = ?`
	var p models.Product
	err := s.DB.QueryRow(query, id).Scan(&p.ID, &p.Title, &p.Price, &p.InStock)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetAllProducts() ([]models.Product, error) {
	query := `SELECT id, title, price, in_stock FROM products ORDER BY title`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.InStock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) UpdateProduct(p *models.Product) error {
	query := `UPDATE products SET title = ?, price = ?, in_stock = ? WHERE id = ?`
	res, err := s.DB.Exec(query, p.Title, p.Price, p.InStock, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
