package main

import (
	"docnet/configuration"
	"docnet/controllers"
	"docnet/routes"
)

func Init() {
	configuration.ConfigDB()
	configuration.InitRedis()
	controllers.StartMailWorker()
}

func main() {
	//Perform application initialization
	Init()
	r := routes.SetupRoutes()

	//Run the engine in default port
	if err := r.Run(); err != nil {
		panic(err)
	}
}
