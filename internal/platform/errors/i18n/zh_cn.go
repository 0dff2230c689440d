package i18n

var zhCNCatalog = &Catalog{
	locale: "zh-CN",
	messages: map[Code]string{
		// Ledger errors
		CodeNotFound:         "未找到请求的记录",
		CodeFinalized:        "世界已最终化，不再接受变更",
		CodeRegression:       "世界状态只能向前推进",
		CodeEventTypeInvalid: "事件类型无效",

		// Being errors
		CodeAlreadyExists: "该身份已拥有数字生命",
		CodeNotOwner:      "只有所有者才能操作该数字生命",
		CodeOwnerEmpty:    "所有者身份不能为空",

		// Dialogue errors
		CodeUnknownRequest:  "请求 {{.RequestID}} 没有对应的交互记录",
		CodeContentConflict: "请求 {{.RequestID}} 的对话内容与已存储内容不一致",
		CodeNPCInactive:     "智能体 {{.NPCID}} 未激活",

		// Epoch errors
		CodeInsufficientFragments: "推进纪元需要 {{.Need}} 个记忆碎片，当前拥有 {{.Have}} 个",
		CodeAtTerminal:            "已到达最终纪元",

		// Governor grant errors
		CodeGovernorGrantInvalid:  "世界执政者凭证缺失或格式错误",
		CodeGovernorGrantMismatch: "世界执政者凭证与当前世界不匹配",
	},
}
