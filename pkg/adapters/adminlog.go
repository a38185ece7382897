package adapters

import (
	"strconv"
	"strings"

	"github.com/de-tools/reporter/pkg/models/store"
)

// ObjectGone is shown in place of the name of an object that no longer exists
const ObjectGone = "Object gone."

var actionNames = map[int]string{
	1: "Add",
	2: "Change",
	3: "Delete",
}

// AdminLogHeader is the header row of the admin log report
var AdminLogHeader = []string{"Username", "Time", "Action", "Content Type", "ID", "Name"}

func MapActionFlag(flag int) string {
	if name, ok := actionNames[flag]; ok {
		return name
	}
	return strconv.Itoa(flag)
}

func MapLogEntryToRow(e store.LogEntry) []string {
	name := ObjectGone
	if e.ObjectID != "" && e.ObjectID != "None" && e.ObjectRepr != "" {
		name = strings.NewReplacer("\n", "", "\r", "").Replace(e.ObjectRepr)
	}

	return []string{
		e.Username,
		e.ActionTime.Format("15:04"),
		MapActionFlag(e.ActionFlag),
		e.ContentType,
		e.ObjectID,
		name,
	}
}
