package docs

// @title           Archive Service API
// @version         1.0
// @description     Archive service keeps the reading history of every bin in PostgreSQL.

// @host      localhost:3001
// @BasePath  /
