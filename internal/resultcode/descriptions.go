package resultcode

// UnknownDescription is returned for codes absent from the description table.
const UnknownDescription = "Unknown result code"

var descriptions = map[string]string{
	"000.000.000": "Transaction succeeded",
	"000.000.100": "Successful request",
	"000.100.105": "Chargeback Representment is successful",
	"000.100.106": "Chargeback Representment cancellation is successful",
	"000.100.110": "Request successfully processed in Merchant in Integrator Test Mode",
	"000.100.111": "Request successfully processed in Merchant in Validator Test Mode",
	"000.100.112": "Request successfully processed in Merchant in Connector Test Mode",
	"000.200.000": "Transaction pending",
	"000.200.100": "Successfully created checkout",
	"000.300.000": "Two-step transaction succeeded",
	"000.400.000": "Transaction succeeded (please review manually due to fraud suspicion)",
	"000.400.010": "Transaction succeeded (please review manually due to AVS return code)",
	"000.400.020": "Transaction succeeded (please review manually due to CVV return code)",
	"000.400.030": "Transaction partially failed (please reverse manually due to failed automatic reversal)",
	"000.400.040": "Transaction succeeded (please review manually due to amount mismatch)",
	"000.400.050": "Transaction succeeded (please review manually because transaction is pending)",
	"000.400.060": "Transaction succeeded (approved at merchants risk)",
	"000.400.070": "Transaction succeeded (waiting for external risk review)",
	"000.400.080": "Transaction succeeded (please review manually because the service was unavailable)",
	"000.400.090": "Transaction succeeded (please review manually due to external risk check)",
	"000.400.100": "Transaction succeeded, risk after payment rejected",
	"000.400.101": "Card not participating/authentication unavailable",
	"000.400.102": "User not enrolled",
	"000.400.110": "Authentication successful (frictionless flow)",
	"000.400.120": "Authentication successful (data only flow)",
	"800.100.100": "Transaction declined for unknown reason",
	"800.100.150": "Transaction declined (refund on gambling tx not allowed)",
	"800.100.151": "Transaction declined (invalid card)",
	"800.100.152": "Transaction declined by authorization system",
	"800.100.153": "Transaction declined (invalid CVV)",
	"800.100.154": "Transaction declined (transaction marked as invalid)",
	"800.100.155": "Transaction declined (amount exceeds credit)",
	"800.100.156": "Transaction declined (format error)",
	"800.100.157": "Transaction declined (wrong expiry date)",
	"800.100.158": "Transaction declined (suspecting manipulation)",
	"800.100.159": "Transaction declined (stolen card)",
	"800.100.160": "Transaction declined (card blocked)",
	"800.100.161": "Transaction declined (too many invalid tries)",
	"800.100.162": "Transaction declined (limit exceeded)",
	"800.100.163": "Transaction declined (maximum transaction frequency exceeded)",
	"800.100.164": "Transaction declined (merchants limit exceeded)",
	"800.100.165": "Transaction declined (card lost)",
	"800.100.166": "Transaction declined (Incorrect personal identification number)",
	"800.100.167": "Transaction declined (referencing transaction does not match)",
	"800.100.168": "Transaction declined (restricted card)",
	"800.100.169": "Transaction declined (card type is not processed by the authorization center)",
	"800.100.170": "Transaction declined (transaction not permitted)",
	"800.100.171": "Transaction declined (pick up card)",
	"800.100.172": "Transaction declined (account blocked)",
	"800.100.173": "Transaction declined (invalid currency, not processed by authorization center)",
	"800.100.174": "Transaction declined (invalid amount)",
	"800.100.175": "Transaction declined (invalid brand)",
	"800.100.176": "Transaction declined (account temporarily not available. Please try again later)",
	"800.100.177": "Transaction declined (amount field should not be empty)",
	"800.100.178": "Transaction declined (PIN entered incorrectly too often)",
	"800.100.179": "Transaction declined (exceeds withdrawal count limit)",
	"800.100.190": "Transaction declined (invalid configuration data)",
	"800.200.159": "Account or user is blacklisted (card stolen)",
	"800.200.160": "Account or user is blacklisted (card blocked)",
	"800.200.165": "Account or user is blacklisted (card lost)",
	"800.300.101": "Account or user is blacklisted",
	"800.300.102": "Country blacklisted",
	"800.300.200": "Email is blacklisted",
	"800.300.301": "IP blacklisted",
	"800.300.401": "BIN blacklisted",
	"800.400.100": "AVS Check Failed",
	"800.400.101": "Mismatch of AVS street value",
	"800.400.102": "Mismatch of AVS street number",
	"800.400.103": "Mismatch of AVS PO box value fatal",
	"800.400.104": "Mismatch of AVS zip code value fatal",
	"800.400.105": "Mismatch of AVS settings (AVSkip, AVIgnore, AVSRejectPolicy) value",
	"800.400.110": "AVS Check Failed. Amount has still been reserved on the customers card and will be released in a few business days. Please ensure the billing address is accurate before retrying the transaction.",
	"800.800.400": "Connector/acquirer system is under maintenance",
	"800.800.800": "The payment system is currently unavailable",
	"800.800.801": "The payment system is currently under maintenance",
	"900.100.100": "Unexpected communication error with connector/acquirer",
	"900.100.200": "Error response from connector/acquirer",
	"900.100.300": "Timeout, uncertain result",
	"900.100.400": "Timeout at connectors/acquirer side",
	"900.100.500": "Timeout at connectors/acquirer side (try later)",
	"900.100.600": "Connector/acquirer currently down",
	"999.999.999": "UNDEFINED CONNECTOR/ACQUIRER ERROR",
}
