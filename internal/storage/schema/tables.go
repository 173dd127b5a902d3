package schema

// DefineClientStorageTable 定义client_storage表结构（键值对，等价于浏览器 localStorage）
func DefineClientStorageTable() *TableBuilder {
	return NewTable("client_storage").
		Column("`key` VARCHAR(191) PRIMARY KEY").
		Column("`value` TEXT NOT NULL").
		Column("updated_at BIGINT NOT NULL").
		Index("idx_client_storage_updated", "updated_at")
}
