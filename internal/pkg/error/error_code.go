package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY   = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_QUERY  = 40002 // 400 - 無效的查詢字串

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED = 40100 // 401 - token 缺少或無效
	FORBIDDEN    = 40301 // 403 - 禁止訪問

	// 40400 ~ 40599: 資源錯誤 (404 405 系列)
	NOT_FOUND          = 40400 // 404 - 資源未找到
	METHOD_NOT_ALLOWED = 40500 // 405 - 路由不支援此方法

	// 40900 ~ 40999: 狀態衝突 (409 系列)
	NO_SESSION      = 40900 // 409 - 尚未建立追蹤 session
	NO_ORGANIZATION = 40901 // 409 - session 沒有追蹤中的組織
	CONFLICT        = 40999 // 409 - 其他狀態衝突

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	DATABASE_ERROR      = 50001 // 500 - 資料庫錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)
	GATEWAY_TIMEOUT     = 50400 // 504 - 等待資料逾時
)
