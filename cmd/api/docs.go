package main

// @title           Reborn API
// @version         1.0
// @description     API de distribuição: clientes, entregas, pagamentos e jornadas de trabalho dos agentes

// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
