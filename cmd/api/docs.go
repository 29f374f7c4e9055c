package main

// @title           Pitch Deck API
// @version         1.0
// @description     API da landing page: captura de leads e chat de demonstração em streaming

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
