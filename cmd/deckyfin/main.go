package main

import (
	"github.com/avivkilloz/deckyfin/cmd/deckyfin/subcmd"
	"github.com/michaelquigley/pfxlog"
	"github.com/sirupsen/logrus"
)

func init() {
	pfxlog.GlobalInit(logrus.InfoLevel, pfxlog.DefaultOptions().SetTrimPrefix("github.com/avivkilloz/"))
}

func main() {
	subcmd.Execute()
}
