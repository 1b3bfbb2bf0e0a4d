package onprem

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	admin "github.com/kong/kongadmin/internal/onprem"
	"github.com/tidwall/gjson"
)

const missing = "n/a"

// entityRecord is the text rendition of one Admin API entity.
type entityRecord struct {
	ID               string
	Name             string
	Tags             string
	LocalCreatedTime string
	LocalUpdatedTime string
}

// changeRecord is the text rendition of a write.
type changeRecord struct {
	Resource string
	ID       string
	Name     string
	Status   int
	Changed  bool
}

// propertyRecord is the text rendition of one field of a document that is
// not an entity, such as the node status.
type propertyRecord struct {
	Property string
	Value    string
}

// nameFields are tried in order to find a display name of an entity.
var nameFields = []string{"name", "username", "target", "custom_id"}

func entityToDisplayRecord(entity gjson.Result) entityRecord {
	record := entityRecord{
		ID:               orMissing(entity.Get("id").String()),
		Name:             missing,
		Tags:             missing,
		LocalCreatedTime: localTime(entity.Get("created_at")),
		LocalUpdatedTime: localTime(entity.Get("updated_at")),
	}
	for _, field := range nameFields {
		if v := entity.Get(field); v.Exists() && v.String() != "" {
			record.Name = v.String()
			break
		}
	}
	if tags := entity.Get("tags").Array(); len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.String()
		}
		record.Tags = strings.Join(names, ", ")
	}
	return record
}

// displayRecord picks the text rendition of an invocation result: a change
// summary for writes, a table for collections, a record for single entities
// and a property list for anything else.
func displayRecord(kind admin.Kind, write bool, result admin.Result) any {
	body, err := json.Marshal(result.Response)
	if err != nil {
		return propertyRecord{Property: "response", Value: fmt.Sprint(result.Response)}
	}
	doc := gjson.ParseBytes(body)

	if write {
		record := entityToDisplayRecord(doc)
		return changeRecord{
			Resource: string(kind),
			ID:       record.ID,
			Name:     record.Name,
			Status:   result.Status,
			Changed:  result.Changed,
		}
	}

	if data := doc.Get("data"); data.IsArray() {
		records := make([]entityRecord, 0, len(data.Array()))
		for _, entity := range data.Array() {
			records = append(records, entityToDisplayRecord(entity))
		}
		return records
	}

	if doc.Get("id").Exists() {
		return entityToDisplayRecord(doc)
	}

	return flattenProperties(doc)
}

// flattenProperties lists the scalar leaves of doc with dotted paths, in
// document order. Arrays are shown as JSON.
func flattenProperties(doc gjson.Result) []propertyRecord {
	var records []propertyRecord
	var walk func(prefix string, value gjson.Result)
	walk = func(prefix string, value gjson.Result) {
		if value.IsObject() {
			value.ForEach(func(key, child gjson.Result) bool {
				path := key.String()
				if prefix != "" {
					path = prefix + "." + path
				}
				walk(path, child)
				return true
			})
			return
		}
		if prefix == "" {
			return
		}
		text := value.String()
		if value.IsArray() {
			text = value.Raw
		}
		records = append(records, propertyRecord{Property: prefix, Value: text})
	}
	walk("", doc)
	return records
}

func localTime(v gjson.Result) string {
	if !v.Exists() || v.Int() == 0 {
		return missing
	}
	return time.Unix(v.Int(), 0).In(time.Local).Format("2006-01-02 15:04:05")
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
