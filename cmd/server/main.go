package main

import "grimoire/internal/app"

// @title           Grimoire API
// @version         1.0
// @description     Gamified personal task tracker: tasks, daily missions, XP, streaks and combos.
// @BasePath        /
func main() {
	app.Run()
}
