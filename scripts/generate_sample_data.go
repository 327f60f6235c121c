package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// Writes clientes.csv, productos.csv and ventas.csv into ./sample_data,
// sized for trying out cmd/etl against a fresh database.
func main() {
	if err := os.MkdirAll("sample_data", 0o755); err != nil {
		log.Fatal(err)
	}

	customers := [][]string{
		{"id", "nombre", "correo"},
		{"1", "María Pérez", "maria@example.com"},
		{"2", "Jorge Gómez", "jorge@example.com"},
		{"3", "Ana Torres", ""},
		{"4", "Luis Ramírez", "luis@example.com"},
		{"5", "Carla Medina", "carla@example.com"},
	}
	writeCSV("sample_data/clientes.csv", customers)

	products := [][]string{
		{"id", "nombre", "categoria", "precio"},
		{"1", "Café Americano", "Bebidas", "2.50"},
		{"2", "Cappuccino", "Bebidas", "3.20"},
		{"3", "Croissant", "Panadería", "1.80"},
		{"4", "Torta de Chocolate", "Panadería", "4.50"},
		{"5", "Jugo Natural", "Bebidas", "3.00"},
	}
	writeCSV("sample_data/productos.csv", products)

	prices := map[int]float64{1: 2.50, 2: 3.20, 3: 1.80, 4: 4.50, 5: 3.00}
	sales := [][]string{{"id", "fecha", "cliente_id", "producto_id", "cantidad", "precio_unitario", "total"}}
	id := 1
	now := time.Now()
	for day := 90; day >= 1; day-- {
		date := now.AddDate(0, 0, -day)
		for i := 0; i < 2+rand.Intn(4); i++ {
			productID := 1 + rand.Intn(5)
			quantity := 1 + rand.Intn(3)
			customerID := rand.Intn(6) // 0 means anonymous
			at := time.Date(date.Year(), date.Month(), date.Day(), 8+rand.Intn(12), rand.Intn(60), 0, 0, time.Local)
			total := prices[productID] * float64(quantity)
			sales = append(sales, []string{
				strconv.Itoa(id),
				at.Format("2006-01-02T15:04:05"),
				strconv.Itoa(customerID),
				strconv.Itoa(productID),
				strconv.Itoa(quantity),
				fmt.Sprintf("%.2f", prices[productID]),
				fmt.Sprintf("%.2f", total),
			})
			id++
		}
	}
	writeCSV("sample_data/ventas.csv", sales)

	log.Printf("wrote %d customers, %d products, %d sales", len(customers)-1, len(products)-1, len(sales)-1)
}

func writeCSV(path string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		log.Fatal(err)
	}
}
