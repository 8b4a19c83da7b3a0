package utils

import (
	"fmt"

	"github.com/fatih/color"
)

// LogInfo affiche un message d'information en jaune
func LogInfo(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	color.Yellow("[INFO] %s", message)
}

// LogError affiche un message d'erreur en rouge
func LogError(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	color.Red("[ERROR] %s", message)
}

// LogRequest affiche une requête entrante en gris
func LogRequest(method, path, remoteAddr string) {
	color.White("[REQUEST] %s %s (%s)", method, path, remoteAddr)
}
