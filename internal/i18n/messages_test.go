package i18n

import "testing"

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	tests := []struct {
		lang string
		key  string
		want string
	}{
		{"zh_CN", MsgPageCreated, "文档创建成功"},
		{"zh_CN", MsgPageUpdated, "文档信息已更新"},
		{"zh_CN", MsgPageDeleted, "文档删除成功"},
		{"en", MsgPageCreated, "Document created"},
		// Unknown language falls back to the default catalog
		{"fr", MsgPageDeleted, "文档删除成功"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			if got := catalog.Message(tt.lang, tt.key); got != tt.want {
				t.Errorf("Message(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestMessage_UnknownKeyReturnsKey(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if got := catalog.Message("zh_CN", "page.archived"); got != "page.archived" {
		t.Errorf("Message = %q, want the key itself", got)
	}
}
